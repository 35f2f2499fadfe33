// Package chunker splits extracted document text into bounded chunks that fit
// the completion service's input budget.
package chunker

import (
	"strings"

	"github.com/candlewick-labs/dataroom-mcp/models"
)

// DefaultMaxChunkChars is the default character budget per chunk.
const DefaultMaxChunkChars = 8000

// Split breaks text into an ordered sequence of chunks, each at most maxChars
// characters long. Words are never split: text is tokenized on whitespace and
// words are accumulated greedily until the next word would overflow the
// budget. A single word longer than the budget occupies a chunk by itself.
// Empty or all-whitespace input yields no chunks.
func Split(text string, maxChars int) []models.Chunk {
	if maxChars <= 0 {
		maxChars = DefaultMaxChunkChars
	}

	var chunks []models.Chunk
	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			chunks = append(chunks, models.Chunk{Index: len(chunks), Text: buf.String()})
			buf.Reset()
		}
	}

	for _, word := range strings.Fields(text) {
		if buf.Len() > 0 && buf.Len()+1+len(word) > maxChars {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(word)
	}
	flush()

	return chunks
}
