// Package domain contains the core business entities and rules for
// ampdesk: knowledge-base documents, chunks, version manifests,
// retrieval results, chat sessions, and translation guardrails.
//
// Domain types have no dependencies on infrastructure. Adapters
// translate between these types and external systems (Ollama, Chroma,
// SQLite, the filesystem).
package domain
