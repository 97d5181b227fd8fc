package httpadapter

import (
	"net/http"

	"github.com/kirillkom/resume-screener/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case domain.IsKind(err, domain.ErrMissingCredential):
		return http.StatusBadGateway
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// userMessage keeps internal detail out of the rendered page.
func userMessage(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrUnsupportedFormat):
		return err.Error() + ". Upload a .pdf, .docx or .txt file."
	case domain.IsKind(err, domain.ErrInvalidInput):
		return "Please provide job requirements and a resume with readable text."
	case domain.IsKind(err, domain.ErrTemporary):
		return "The analysis service is busy or unreachable. Please try again shortly."
	default:
		return "The resume could not be analyzed."
	}
}
