// Package chunker provides a fixed-size text chunking processor.
package chunker

// DefaultChunkSize is the default number of runes per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping runes.
const DefaultChunkOverlap = 200

// Processor splits conversation content into fixed-size overlapping
// windows. Sizes are measured in runes so multi-byte characters are
// never split mid-sequence.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in runes.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// Ensure overlap doesn't exceed chunk size
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Split breaks text into overlapping windows. Empty content produces
// no chunks.
func (p *Processor) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	total := len(runes)
	step := p.chunkSize - p.overlap

	estimated := total/step + 1
	chunks := make([]string, 0, estimated)

	for start := 0; start < total; start += step {
		end := start + p.chunkSize
		if end > total {
			end = total
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == total {
			break
		}
	}

	return chunks
}
