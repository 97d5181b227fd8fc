package chunking

import "unicode"

const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
)

type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 10
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

// Split cuts text into windows of at most ChunkSize runes. Consecutive chunks
// share exactly Overlap runes, so dropping the first Overlap runes of every
// chunk after the first and concatenating gives back the input.
func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	out := make([]string, 0, len(runes)/(s.ChunkSize-s.Overlap)+1)
	start := 0
	for {
		end := start + s.ChunkSize
		if end >= len(runes) {
			out = append(out, string(runes[start:]))
			break
		}
		end = s.boundary(runes, start, end)
		out = append(out, string(runes[start:end]))
		start = end - s.Overlap
	}
	return out
}

// boundary moves end back to just after the last whitespace in the window,
// keeping it past start+Overlap so the next window always advances.
func (s *Splitter) boundary(runes []rune, start, end int) int {
	for i := end - 1; i > start+s.Overlap; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}
