// Package sqlite provides a SQLite-backed chat store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO. The schema is managed through versioned
// migrations embedded in the migrations/ directory. All operations are
// thread-safe; the store relies on database-level locking in WAL mode.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ampdesk/ampdesk/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/ampdesk/ampdesk/internal/core/domain"
	"github.com/ampdesk/ampdesk/internal/core/ports/driven"
)

var _ driven.ChatStore = (*ChatStore)(nil)

// timeFormat is how timestamps are stored. RFC 3339 sorts
// lexicographically, which the history query depends on.
const timeFormat = time.RFC3339Nano

// ChatStore persists chat sessions and messages in SQLite.
type ChatStore struct {
	db   *sql.DB
	path string
}

// NewChatStore opens (or creates) the chat database inside dataDir.
func NewChatStore(dataDir string) (*ChatStore, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "chats.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &ChatStore{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *ChatStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *ChatStore) Path() string {
	return s.path
}

// CreateChat creates a new session with a fresh ULID.
func (s *ChatStore) CreateChat(ctx context.Context) (domain.ChatSession, error) {
	now := time.Now().UTC()
	session := domain.ChatSession{
		ID:        ulid.Make().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO chats (chat_id, created_at, updated_at) VALUES (?, ?, ?)",
		session.ID, now.Format(timeFormat), now.Format(timeFormat),
	)
	if err != nil {
		return domain.ChatSession{}, fmt.Errorf("inserting chat: %w", err)
	}

	return session, nil
}

// GetChat returns the session or domain.ErrNotFound.
func (s *ChatStore) GetChat(ctx context.Context, chatID string) (domain.ChatSession, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT chat_id, created_at, updated_at FROM chats WHERE chat_id = ?",
		chatID,
	)

	var session domain.ChatSession
	var createdAt, updatedAt string
	if err := row.Scan(&session.ID, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ChatSession{}, fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
		}
		return domain.ChatSession{}, fmt.Errorf("querying chat: %w", err)
	}

	var err error
	if session.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return domain.ChatSession{}, fmt.Errorf("parsing created_at: %w", err)
	}
	if session.UpdatedAt, err = time.Parse(timeFormat, updatedAt); err != nil {
		return domain.ChatSession{}, fmt.Errorf("parsing updated_at: %w", err)
	}

	return session, nil
}

// AppendMessage appends one message and bumps the session's updated
// timestamp in the same transaction.
func (s *ChatStore) AppendMessage(ctx context.Context, chatID, role, text string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(timeFormat)

	res, err := tx.ExecContext(ctx,
		"UPDATE chats SET updated_at = ? WHERE chat_id = ?",
		now, chatID,
	)
	if err != nil {
		return fmt.Errorf("updating chat: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("chat %s: %w", chatID, domain.ErrNotFound)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO messages (chat_id, role, text, ts) VALUES (?, ?, ?, ?)",
		chatID, role, text, now,
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	return tx.Commit()
}

// Messages returns up to limit most recent messages, oldest first.
func (s *ChatStore) Messages(ctx context.Context, chatID string, limit int) ([]domain.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT role, text, ts FROM messages WHERE chat_id = ? ORDER BY id DESC LIMIT ?",
		chatID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		var ts string
		if err := rows.Scan(&msg.Role, &msg.Text, &ts); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		if msg.At, err = time.Parse(timeFormat, ts); err != nil {
			return nil, fmt.Errorf("parsing message timestamp: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}

	// Query returns newest first; reverse to oldest first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// migrate runs all pending migrations.
func (s *ChatStore) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
