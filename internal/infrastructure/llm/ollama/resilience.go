package ollama

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kirillkom/resume-screener/internal/core/domain"
	"github.com/kirillkom/resume-screener/internal/infrastructure/resilience"
)

// classifyOllamaError keeps a missing model out of the retry path: it needs an
// `ollama pull`, not another request.
func classifyOllamaError(err error) resilience.ErrorClassification {
	if class, ok := resilience.ClassifyCommon(err); ok {
		return class
	}
	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if statusErr.ModelMissing() {
			return resilience.Permanent
		}
		return resilience.ClassifyHTTPStatus(statusErr.StatusCode)
	}
	return resilience.Permanent
}

// wrapOllamaError maps local model failures onto the same kinds the hosted
// provider reports, so the adapters render both the same way.
func wrapOllamaError(operation string, err error) error {
	return resilience.WrapKind(operation, err, classifyOllamaError, domain.ErrUpstream)
}

// ModelMissing reports Ollama's 404 for a model that was never pulled.
func (e *HTTPStatusError) ModelMissing() bool {
	return e != nil && e.StatusCode == http.StatusNotFound && strings.Contains(strings.ToLower(e.Body), "not found")
}
