// Package services implements the core pipeline: query expansion,
// multi-query retrieval, answer synthesis, the orchestrator composing
// them, and the ingestion flow that builds the index they search.
package services
