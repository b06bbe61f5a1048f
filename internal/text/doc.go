// Package text provides the pure text transforms of the ingestion
// pipeline: document normalisation and heading-aware chunking.
// Both are deterministic and side-effect free.
package text
