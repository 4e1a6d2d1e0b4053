package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEmptyText(t *testing.T) {
	p := New()
	assert.Nil(t, p.Split(""))
}

func TestSplitShortTextSingleChunk(t *testing.T) {
	p := New()
	chunks := p.Split("short message")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short message", chunks[0])
}

func TestSplitOverlappingWindows(t *testing.T) {
	p := New(WithChunkSize(10), WithOverlap(4))
	text := "abcdefghijklmnopqrstuvwxyz"

	chunks := p.Split(text)

	require.Len(t, chunks, 4)
	assert.Equal(t, "abcdefghij", chunks[0])
	assert.Equal(t, "ghijklmnop", chunks[1])
	assert.Equal(t, "mnopqrstuv", chunks[2])
	assert.Equal(t, "stuvwxyz", chunks[3])
}

func TestSplitCountsRunesNotBytes(t *testing.T) {
	p := New(WithChunkSize(4), WithOverlap(0))
	text := strings.Repeat("é", 8)

	chunks := p.Split(text)

	require.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("é", 4), chunks[0])
	assert.Equal(t, strings.Repeat("é", 4), chunks[1])
}

func TestNewClampsOverlapBelowChunkSize(t *testing.T) {
	p := New(WithChunkSize(100), WithOverlap(100))
	assert.Equal(t, 25, p.overlap)
}

func TestSplitCoversAllText(t *testing.T) {
	p := New(WithChunkSize(50), WithOverlap(10))
	text := strings.Repeat("0123456789", 30)

	chunks := p.Split(text)

	require.NotEmpty(t, chunks)
	assert.True(t, strings.HasPrefix(text, chunks[0]))
	assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1]))
}
