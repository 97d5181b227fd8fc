package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/resume-screener/internal/core/domain"
)

// TextExtractor extracts plain text from an uploaded document.
type TextExtractor interface {
	Extract(ctx context.Context, filename string, body io.Reader) (string, error)
}

// AnalysisGenerator sends a single prompt to the hosted chat model.
type AnalysisGenerator interface {
	GenerateAnalysis(ctx context.Context, prompt string) (string, error)
}

// Embedder builds vectors for chunks.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Chunker splits text into overlapping segments.
type Chunker interface {
	Split(text string) []string
}

// VectorStore indexes chunks by id. IndexChunks returns once the write is durable;
// an existing id is overwritten.
type VectorStore interface {
	IndexChunks(ctx context.Context, chunks []domain.AnalysisChunk, vectors [][]float32) error
}

// EventPublisher announces stored analyses.
type EventPublisher interface {
	PublishAnalysisStored(ctx context.Context, event domain.AnalysisStoredEvent) error
}

// ScreeningMetrics records screening outcomes.
type ScreeningMetrics interface {
	ObserveScreening(outcome string, duration time.Duration, score *int, storedChunks int)
}
