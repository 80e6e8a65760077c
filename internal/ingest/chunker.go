package ingest

import "strings"

// separators in preference order: paragraph, line, sentence, word
var separators = []string{"\n\n", "\n", ". ", " "}

// Chunker splits text into overlapping character-bounded chunks, preferring
// to break at paragraph, line, sentence and word boundaries in that order.
type Chunker struct {
	size    int
	overlap int
}

func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 500
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split returns the chunk texts for the document. Consecutive chunks share
// overlap characters so sentences cut at a boundary stay retrievable.
func (c *Chunker) Split(text string) []string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + c.size
		if end >= len(runes) {
			chunk := strings.TrimSpace(string(runes[start:]))
			if chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		cut := c.findCut(runes, start, end)
		chunk := strings.TrimSpace(string(runes[start:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := cut - c.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// findCut looks backwards from the size limit for the best boundary. Only the
// second half of the window is considered so chunks never collapse to a few
// characters; with no boundary there, the hard limit applies.
func (c *Chunker) findCut(runes []rune, start, end int) int {
	window := string(runes[start:end])
	floor := len([]rune(window)) / 2

	for _, sep := range separators {
		if pos := strings.LastIndex(window, sep); pos >= 0 {
			runePos := len([]rune(window[:pos]))
			if runePos >= floor {
				return start + runePos + len([]rune(sep))
			}
		}
	}
	return end
}
