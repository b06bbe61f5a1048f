// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the LLM runtime, the vector store,
// session and version storage, and text extraction helpers.
package driven
