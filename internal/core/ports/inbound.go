package ports

import (
	"context"

	"github.com/kirillkom/resume-screener/internal/core/domain"
)

// ResumeScreener is the inbound contract for one user-triggered screening:
// extract, analyze, score, store.
type ResumeScreener interface {
	Screen(ctx context.Context, req domain.ScreeningRequest) (*domain.ScreeningResult, error)
}

// AnalysisPipeline turns job requirements and resume text into the raw model analysis.
type AnalysisPipeline interface {
	Analyze(ctx context.Context, jobRequirements, resumeText string) (string, error)
}

// AnalysisStore persists chunked analysis text into the vector index.
type AnalysisStore interface {
	StoreAnalysis(ctx context.Context, resumeText, analysis, documentID string) ([]domain.AnalysisChunk, error)
}
