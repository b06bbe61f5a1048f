// Package services contains the core business logic: ingestion,
// retrieval fusion, chat orchestration, knowledge-base lifecycle, and
// guarded translation. Services depend only on driven ports, never on
// concrete adapters.
package services
