package domain

import (
	"fmt"
	"time"
)

// AnalysisChunk is the only state that outlives a request.
type AnalysisChunk struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"`
	Text       string `json:"text"`
}

func ChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}

type ScreeningResult struct {
	DocumentID   string   `json:"document_id"`
	Filename     string   `json:"filename"`
	ResumeText   string   `json:"resume_text"`
	Analysis     string   `json:"analysis"`
	Score        *int     `json:"suitability_score,omitempty"`
	StoredChunks []string `json:"stored_chunks"`
}

func (r *ScreeningResult) HasScore() bool {
	return r != nil && r.Score != nil
}

type AnalysisStoredEvent struct {
	DocumentID string    `json:"document_id"`
	ChunkIDs   []string  `json:"chunk_ids"`
	Score      *int      `json:"suitability_score,omitempty"`
	StoredAt   time.Time `json:"stored_at"`
}
