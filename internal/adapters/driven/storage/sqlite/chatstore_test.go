package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampdesk/ampdesk/internal/core/domain"
)

func newTestStore(t *testing.T) *ChatStore {
	t.Helper()
	store, err := NewChatStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateAndGetChat(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.CreateChat(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := store.GetChat(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
}

func TestGetChat_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetChat(context.Background(), "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAppendMessage_BumpsUpdatedAt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.CreateChat(ctx)
	require.NoError(t, err)

	require.NoError(t, store.AppendMessage(ctx, session.ID, domain.RoleUser, "hello"))

	got, err := store.GetChat(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, got.UpdatedAt.Before(session.UpdatedAt))
}

func TestAppendMessage_UnknownChat(t *testing.T) {
	store := newTestStore(t)

	err := store.AppendMessage(context.Background(), "missing", domain.RoleUser, "hello")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMessages_OldestFirstWithLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.CreateChat(ctx)
	require.NoError(t, err)

	texts := []string{"one", "two", "three", "four"}
	for _, text := range texts {
		require.NoError(t, store.AppendMessage(ctx, session.ID, domain.RoleUser, text))
	}

	messages, err := store.Messages(ctx, session.ID, 3)
	require.NoError(t, err)

	require.Len(t, messages, 3)
	assert.Equal(t, "two", messages[0].Text)
	assert.Equal(t, "three", messages[1].Text)
	assert.Equal(t, "four", messages[2].Text)
}

func TestMessages_EmptyChat(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	session, err := store.CreateChat(ctx)
	require.NoError(t, err)

	messages, err := store.Messages(ctx, session.ID, 50)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestReopen_KeepsData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewChatStore(dir)
	require.NoError(t, err)
	session, err := store.CreateChat(ctx)
	require.NoError(t, err)
	require.NoError(t, store.AppendMessage(ctx, session.ID, domain.RoleUser, "persisted"))
	require.NoError(t, store.Close())

	reopened, err := NewChatStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	messages, err := reopened.Messages(ctx, session.ID, 50)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "persisted", messages[0].Text)
}
