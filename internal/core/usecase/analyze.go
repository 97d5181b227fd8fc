package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kirillkom/resume-screener/internal/core/domain"
	"github.com/kirillkom/resume-screener/internal/core/ports"
)

type AnalyzeResumeUseCase struct {
	generator ports.AnalysisGenerator
}

func NewAnalyzeResumeUseCase(generator ports.AnalysisGenerator) *AnalyzeResumeUseCase {
	return &AnalyzeResumeUseCase{generator: generator}
}

// Analyze makes exactly one model call and returns the reply unmodified.
func (uc *AnalyzeResumeUseCase) Analyze(ctx context.Context, jobRequirements, resumeText string) (string, error) {
	if strings.TrimSpace(jobRequirements) == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "analyze resume", errors.New("job requirements are required"))
	}
	if strings.TrimSpace(resumeText) == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "analyze resume", errors.New("resume text is required"))
	}

	analysis, err := uc.generator.GenerateAnalysis(ctx, BuildAnalysisPrompt(jobRequirements, resumeText))
	if err != nil {
		return "", fmt.Errorf("generate analysis: %w", err)
	}
	return analysis, nil
}
