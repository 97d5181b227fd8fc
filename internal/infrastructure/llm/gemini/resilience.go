package gemini

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/kirillkom/resume-screener/internal/core/domain"
	"github.com/kirillkom/resume-screener/internal/infrastructure/resilience"
)

func apiError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

func classifyGeminiError(err error) resilience.ErrorClassification {
	if class, ok := resilience.ClassifyCommon(err); ok {
		return class
	}
	if apiErr, ok := apiError(err); ok {
		return resilience.ClassifyHTTPStatus(apiErr.Code)
	}
	return resilience.Permanent
}

// wrapGeminiError attaches a domain kind: bad keys become ErrMissingCredential,
// transport and 5xx failures ErrTemporary, everything else ErrUpstream.
func wrapGeminiError(operation string, err error) error {
	if apiErr, ok := apiError(err); ok {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domain.WrapError(domain.ErrMissingCredential, operation, err)
		case http.StatusBadRequest:
			if apiErr.Status == "INVALID_ARGUMENT" && isKeyMessage(apiErr.Message) {
				return domain.WrapError(domain.ErrMissingCredential, operation, err)
			}
		}
	}
	return resilience.WrapKind(operation, err, classifyGeminiError, domain.ErrUpstream)
}

func isKeyMessage(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "api key")
}
