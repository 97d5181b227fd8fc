package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kirillkom/resume-screener/internal/core/domain"
	"github.com/kirillkom/resume-screener/internal/core/ports"
)

const (
	OutcomeSuccess      = "success"
	OutcomeInvalidInput = "invalid_input"
	OutcomeExtractError = "extract_error"
	OutcomeAnalyzeError = "analyze_error"
	OutcomeStoreError   = "store_error"
)

type ScreenOption func(*ScreenResumeUseCase)

func WithEventPublisher(publisher ports.EventPublisher) ScreenOption {
	return func(uc *ScreenResumeUseCase) {
		uc.events = publisher
	}
}

func WithMetrics(metrics ports.ScreeningMetrics) ScreenOption {
	return func(uc *ScreenResumeUseCase) {
		if metrics != nil {
			uc.metrics = metrics
		}
	}
}

// WithStateHook registers a callback invoked on every state transition.
func WithStateHook(hook func(domain.ScreeningState)) ScreenOption {
	return func(uc *ScreenResumeUseCase) {
		uc.onState = hook
	}
}

func WithLogger(logger *slog.Logger) ScreenOption {
	return func(uc *ScreenResumeUseCase) {
		if logger != nil {
			uc.logger = logger
		}
	}
}

type ScreenResumeUseCase struct {
	extractor ports.TextExtractor
	pipeline  ports.AnalysisPipeline
	store     ports.AnalysisStore
	events    ports.EventPublisher
	metrics   ports.ScreeningMetrics
	onState   func(domain.ScreeningState)
	logger    *slog.Logger
	now       func() time.Time
}

func NewScreenResumeUseCase(
	extractor ports.TextExtractor,
	pipeline ports.AnalysisPipeline,
	store ports.AnalysisStore,
	options ...ScreenOption,
) *ScreenResumeUseCase {
	uc := &ScreenResumeUseCase{
		extractor: extractor,
		pipeline:  pipeline,
		store:     store,
		metrics:   noopMetrics{},
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range options {
		opt(uc)
	}
	return uc
}

// Screen runs Extracting -> Analyzing -> Displaying -> Storing -> Done and
// always returns to Idle. A failure while extracting or analyzing aborts before
// anything is stored. A storing failure still returns the analyzed result.
func (uc *ScreenResumeUseCase) Screen(ctx context.Context, req domain.ScreeningRequest) (*domain.ScreeningResult, error) {
	start := uc.now()
	result, outcome, err := uc.screen(ctx, req)

	storedChunks := 0
	var score *int
	if result != nil {
		storedChunks = len(result.StoredChunks)
		score = result.Score
	}
	uc.metrics.ObserveScreening(outcome, uc.now().Sub(start), score, storedChunks)

	if err != nil {
		uc.logger.ErrorContext(ctx, "screening_failed", "outcome", outcome, "filename", req.Filename, "error", err)
	}
	uc.transition(ctx, domain.StateIdle)
	return result, err
}

func (uc *ScreenResumeUseCase) screen(ctx context.Context, req domain.ScreeningRequest) (*domain.ScreeningResult, string, error) {
	uc.transition(ctx, domain.StateCollectingInput)
	if err := validateRequest(req); err != nil {
		return nil, OutcomeInvalidInput, err
	}
	documentID := domain.DocumentIDFromFilename(req.Filename)

	uc.transition(ctx, domain.StateExtracting)
	resumeText, err := uc.extractor.Extract(ctx, req.Filename, req.Body)
	if err != nil {
		return nil, OutcomeExtractError, fmt.Errorf("extract resume text: %w", err)
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, OutcomeInvalidInput, domain.WrapError(domain.ErrInvalidInput, "extract resume text", errors.New("no extractable text"))
	}

	uc.transition(ctx, domain.StateAnalyzing)
	analysis, err := uc.pipeline.Analyze(ctx, req.JobRequirements, resumeText)
	if err != nil {
		return nil, OutcomeAnalyzeError, fmt.Errorf("analyze resume: %w", err)
	}

	result := &domain.ScreeningResult{
		DocumentID:   documentID,
		Filename:     req.Filename,
		ResumeText:   resumeText,
		Analysis:     analysis,
		StoredChunks: []string{},
	}
	if score, ok := domain.ExtractSuitabilityScore(analysis); ok {
		result.Score = &score
	} else {
		uc.logger.InfoContext(ctx, "suitability_score_missing", "document_id", documentID)
	}
	uc.transition(ctx, domain.StateDisplaying)

	uc.transition(ctx, domain.StateStoring)
	chunks, err := uc.store.StoreAnalysis(ctx, resumeText, analysis, documentID)
	if err != nil {
		return result, OutcomeStoreError, fmt.Errorf("store analysis: %w", err)
	}
	for _, c := range chunks {
		result.StoredChunks = append(result.StoredChunks, c.ID)
	}
	uc.publishStored(ctx, result)

	uc.transition(ctx, domain.StateDone)
	return result, OutcomeSuccess, nil
}

func (uc *ScreenResumeUseCase) publishStored(ctx context.Context, result *domain.ScreeningResult) {
	if uc.events == nil {
		return
	}
	event := domain.AnalysisStoredEvent{
		DocumentID: result.DocumentID,
		ChunkIDs:   result.StoredChunks,
		Score:      result.Score,
		StoredAt:   uc.now().UTC(),
	}
	if err := uc.events.PublishAnalysisStored(ctx, event); err != nil {
		uc.logger.WarnContext(ctx, "analysis_stored_event_failed", "document_id", result.DocumentID, "error", err)
	}
}

func (uc *ScreenResumeUseCase) transition(ctx context.Context, state domain.ScreeningState) {
	uc.logger.DebugContext(ctx, "screening_state", "state", string(state))
	if uc.onState != nil {
		uc.onState(state)
	}
}

func validateRequest(req domain.ScreeningRequest) error {
	if strings.TrimSpace(req.JobRequirements) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "collect input", errors.New("job requirements are required"))
	}
	if strings.TrimSpace(req.Filename) == "" || req.Body == nil {
		return domain.WrapError(domain.ErrInvalidInput, "collect input", errors.New("resume file is required"))
	}
	return nil
}

type noopMetrics struct{}

func (noopMetrics) ObserveScreening(string, time.Duration, *int, int) {}
