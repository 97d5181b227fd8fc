package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/resume-screener/internal/core/domain"
	"github.com/kirillkom/resume-screener/internal/core/ports"
)

type StoreAnalysisUseCase struct {
	chunker  ports.Chunker
	embedder ports.Embedder
	vectorDB ports.VectorStore
}

func NewStoreAnalysisUseCase(
	chunker ports.Chunker,
	embedder ports.Embedder,
	vectorDB ports.VectorStore,
) *StoreAnalysisUseCase {
	return &StoreAnalysisUseCase{
		chunker:  chunker,
		embedder: embedder,
		vectorDB: vectorDB,
	}
}

// StoreAnalysis chunks the analysis, keys every chunk as {documentID}_chunk_{i}
// and indexes them. The resume text is not part of the stored payload.
func (uc *StoreAnalysisUseCase) StoreAnalysis(
	ctx context.Context,
	_ string,
	analysis, documentID string,
) ([]domain.AnalysisChunk, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "store analysis", errors.New("document id is required"))
	}

	chunks, err := uc.chunk(analysis, documentID)
	if err != nil {
		return nil, err
	}

	vectors, err := uc.embed(ctx, chunks)
	if err != nil {
		return nil, err
	}

	if err := uc.vectorDB.IndexChunks(ctx, chunks, vectors); err != nil {
		return nil, fmt.Errorf("index chunks in vector db: %w", err)
	}
	return chunks, nil
}

func (uc *StoreAnalysisUseCase) chunk(analysis, documentID string) ([]domain.AnalysisChunk, error) {
	parts := uc.chunker.Split(analysis)
	if len(parts) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "chunk analysis", errors.New("chunking produced zero chunks"))
	}

	chunks := make([]domain.AnalysisChunk, 0, len(parts))
	for i, text := range parts {
		chunks = append(chunks, domain.AnalysisChunk{
			ID:         domain.ChunkID(documentID, i),
			DocumentID: documentID,
			Index:      i,
			Text:       text,
		})
	}
	return chunks, nil
}

func (uc *StoreAnalysisUseCase) embed(ctx context.Context, chunks []domain.AnalysisChunk) ([][]float32, error) {
	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}

	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"embed chunks",
			fmt.Errorf("vectors/chunks mismatch: %d/%d", len(vectors), len(chunks)),
		)
	}
	return vectors, nil
}
