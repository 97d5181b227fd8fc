package chunking

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplitHardCutWindows(t *testing.T) {
	s := NewSplitter(500, 50)
	text := strings.Repeat("a", 1200)

	chunks := s.Split(text)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	wantLens := []int{500, 500, 300}
	for i, c := range chunks {
		if utf8.RuneCountInString(c) != wantLens[i] {
			t.Fatalf("chunk %d has %d runes, want %d", i, utf8.RuneCountInString(c), wantLens[i])
		}
	}
	assertReconstructs(t, s, text, chunks)
}

func TestSplitPrefersWhitespace(t *testing.T) {
	s := NewSplitter(500, 50)
	words := make([]string, 0, 300)
	for i := 0; i < 300; i++ {
		words = append(words, "analysis")
	}
	text := strings.Join(words, " ")

	chunks := s.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i, c := range chunks[:len(chunks)-1] {
		if utf8.RuneCountInString(c) > 500 {
			t.Fatalf("chunk %d exceeds window", i)
		}
		if !strings.HasSuffix(c, " ") {
			t.Fatalf("chunk %d should end on a word boundary: %q", i, c[len(c)-10:])
		}
	}
	assertReconstructs(t, s, text, chunks)
}

func TestSplitShortAndEmpty(t *testing.T) {
	s := NewSplitter(500, 50)
	if got := s.Split(""); got != nil {
		t.Fatalf("expected nil for empty text, got %v", got)
	}
	got := s.Split("Suitability Score: 85%")
	if len(got) != 1 || got[0] != "Suitability Score: 85%" {
		t.Fatalf("unexpected chunks %v", got)
	}
}

func TestSplitMultibyte(t *testing.T) {
	s := NewSplitter(10, 3)
	text := strings.Repeat("ж", 25)

	chunks := s.Split(text)
	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Fatalf("chunk %d is not valid utf-8", i)
		}
	}
	assertReconstructs(t, s, text, chunks)
}

func TestNewSplitterNormalizesOptions(t *testing.T) {
	s := NewSplitter(0, -1)
	if s.ChunkSize != DefaultChunkSize || s.Overlap != 0 {
		t.Fatalf("unexpected defaults %+v", s)
	}
	s = NewSplitter(100, 100)
	if s.Overlap >= s.ChunkSize {
		t.Fatalf("overlap must be smaller than chunk size: %+v", s)
	}
}

func assertReconstructs(t *testing.T, s *Splitter, text string, chunks []string) {
	t.Helper()
	var b strings.Builder
	for i, c := range chunks {
		runes := []rune(c)
		if i > 0 {
			prev := []rune(chunks[i-1])
			if string(prev[len(prev)-s.Overlap:]) != string(runes[:s.Overlap]) {
				t.Fatalf("chunks %d and %d do not overlap by %d runes", i-1, i, s.Overlap)
			}
			runes = runes[s.Overlap:]
		}
		b.WriteString(string(runes))
	}
	if b.String() != text {
		t.Fatalf("reconstruction mismatch")
	}
}
