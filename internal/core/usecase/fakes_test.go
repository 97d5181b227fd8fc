package usecase

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/kirillkom/resume-screener/internal/core/domain"
)

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (f *fakeExtractor) Extract(_ context.Context, _ string, body io.Reader) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.text != "" {
		return f.text, nil
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) GenerateAnalysis(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeChunker struct {
	parts []string
}

func (f *fakeChunker) Split(text string) []string {
	if f.parts != nil {
		return f.parts
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return []string{text}
}

type fakeEmbedder struct {
	err   error
	short bool
	texts []string
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.texts = append(f.texts, texts...)
	if f.err != nil {
		return nil, f.err
	}
	n := len(texts)
	if f.short && n > 0 {
		n--
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = []float32{float32(i), 0.5}
	}
	return out, nil
}

type fakeVectorStore struct {
	err    error
	byID   map[string]domain.AnalysisChunk
	writes int
}

func (f *fakeVectorStore) IndexChunks(_ context.Context, chunks []domain.AnalysisChunk, _ [][]float32) error {
	if f.err != nil {
		return f.err
	}
	if f.byID == nil {
		f.byID = map[string]domain.AnalysisChunk{}
	}
	f.writes++
	for _, c := range chunks {
		f.byID[c.ID] = c
	}
	return nil
}

type fakePublisher struct {
	err    error
	events []domain.AnalysisStoredEvent
}

func (f *fakePublisher) PublishAnalysisStored(_ context.Context, event domain.AnalysisStoredEvent) error {
	f.events = append(f.events, event)
	return f.err
}

type fakeMetrics struct {
	outcomes []string
	scores   []*int
	stored   []int
}

func (f *fakeMetrics) ObserveScreening(outcome string, _ time.Duration, score *int, storedChunks int) {
	f.outcomes = append(f.outcomes, outcome)
	f.scores = append(f.scores, score)
	f.stored = append(f.stored, storedChunks)
}
