package chromem

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/kirillkom/resume-screener/internal/core/domain"
)

// Store keeps analysis chunks in an embedded, file-backed chromem-go collection.
// Each document is written to disk before AddDocuments returns.
type Store struct {
	db         *chromemgo.DB
	collection *chromemgo.Collection
}

// Open creates dir when it does not exist and loads any previously stored
// collection from it. embed is only consulted for chunks passed without a vector.
func Open(dir, collection string, embed chromemgo.EmbeddingFunc) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create vector store dir: %w", err)
	}
	db, err := chromemgo.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open chromem db: %w", err)
	}
	col, err := db.GetOrCreateCollection(collection, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("open chromem collection %s: %w", collection, err)
	}
	return &Store{db: db, collection: col}, nil
}

func (s *Store) IndexChunks(ctx context.Context, chunks []domain.AnalysisChunk, vectors [][]float32) error {
	if len(chunks) == 0 {
		return nil
	}
	if len(vectors) != 0 && len(vectors) != len(chunks) {
		return fmt.Errorf("chunks/vectors mismatch")
	}

	docs := make([]chromemgo.Document, 0, len(chunks))
	for i, chunk := range chunks {
		doc := chromemgo.Document{
			ID:      chunk.ID,
			Content: chunk.Text,
			Metadata: map[string]string{
				"doc_id":      chunk.DocumentID,
				"chunk_index": strconv.Itoa(chunk.Index),
			},
		}
		if len(vectors) != 0 {
			doc.Embedding = vectors[i]
		}
		docs = append(docs, doc)
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("chromem add documents: %w", err)
	}
	return nil
}

func (s *Store) Count() int {
	return s.collection.Count()
}

func (s *Store) Get(ctx context.Context, chunkID string) (domain.AnalysisChunk, error) {
	doc, err := s.collection.GetByID(ctx, chunkID)
	if err != nil {
		return domain.AnalysisChunk{}, fmt.Errorf("chromem get %s: %w", chunkID, err)
	}
	index, _ := strconv.Atoi(doc.Metadata["chunk_index"])
	return domain.AnalysisChunk{
		ID:         doc.ID,
		DocumentID: doc.Metadata["doc_id"],
		Index:      index,
		Text:       doc.Content,
	}, nil
}
