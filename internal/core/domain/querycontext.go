package domain

// QueryContext carries a question through the ask pipeline. It is a
// value type: the With* methods return modified copies and never mutate
// the receiver, so a context handed to one stage cannot be changed by
// another.
type QueryContext struct {
	Question   string
	Variations []string
	Retrieved  []Chunk
	Answer     string
}

// NewQueryContext starts a context for the given question.
func NewQueryContext(question string) QueryContext {
	return QueryContext{Question: question}
}

// WithVariations returns a copy carrying the expanded query variations.
func (q QueryContext) WithVariations(variations []string) QueryContext {
	q.Variations = variations
	return q
}

// WithRetrieved returns a copy carrying the ranked retrieved chunks.
func (q QueryContext) WithRetrieved(chunks []Chunk) QueryContext {
	q.Retrieved = chunks
	return q
}

// WithAnswer returns a copy carrying the synthesized answer.
func (q QueryContext) WithAnswer(answer string) QueryContext {
	q.Answer = answer
	return q
}
