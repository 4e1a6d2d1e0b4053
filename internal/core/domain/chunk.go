package domain

// Chunk is an indexable slice of a conversation. SourceID is the stable
// identity used for deduplication across query variations; two chunks
// with the same SourceID are the same piece of text.
type Chunk struct {
	SourceID     string
	Text         string
	ChatID       string
	Title        string
	Participants string
}

// EmbeddedChunk pairs a chunk with its document-role embedding vector.
type EmbeddedChunk struct {
	Chunk
	Embedding []float32
}

// ScoredCandidate is a chunk returned from a similarity search together
// with its distance from the query. Lower scores mean more similar.
type ScoredCandidate struct {
	Chunk
	Score float64
}

// Conversation is one chat thread from an export, flattened into a
// single chronological transcript.
type Conversation struct {
	ChatID       string
	Title        string
	Participants string
	Content      string
}
