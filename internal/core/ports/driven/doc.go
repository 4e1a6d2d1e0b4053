// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports). The pipeline consumes three capabilities
// through these ports: embeddings, vector similarity search, and
// schema-constrained chat completion. Ingestion additionally consumes
// a document source. All implementations must be safe for concurrent
// use by multiple simultaneous requests.
package driven
