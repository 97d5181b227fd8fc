package resilience

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/kirillkom/resume-screener/internal/core/domain"
)

var (
	// Transient failures are retried and count against the breaker.
	Transient = ErrorClassification{Retryable: true, RecordFailure: true}
	// Permanent failures are not retried but still count against the breaker.
	Permanent = ErrorClassification{Retryable: false, RecordFailure: true}
	// Ignored covers caller cancellation and client-side mistakes.
	Ignored = ErrorClassification{}
)

// ClassifyCommon settles what every upstream shares: cancellation, an open
// breaker and network errors. ok is false when the caller has to decide.
func ClassifyCommon(err error) (ErrorClassification, bool) {
	switch {
	case err == nil:
		return Ignored, true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return Ignored, true
	case IsCircuitOpen(err):
		return Transient, true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Transient, true
	}
	return ErrorClassification{}, false
}

// ClassifyHTTPStatus treats 4xx answers other than 408/429 as the caller's fault.
func ClassifyHTTPStatus(statusCode int) ErrorClassification {
	if IsRetryableHTTPStatus(statusCode) {
		return Transient
	}
	return Ignored
}

func IsRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// WrapKind tags err with ErrTemporary when classify marks it retryable or the
// breaker rejected the call, and with fallback otherwise. A nil fallback leaves
// non-temporary errors untouched. Errors that already carry a kind pass through.
func WrapKind(operation string, err error, classify ErrorClassifier, fallback error) error {
	if err == nil {
		return nil
	}
	if hasKind(err) {
		return err
	}
	if IsCircuitOpen(err) || classify(err).Retryable {
		return domain.WrapError(domain.ErrTemporary, operation, err)
	}
	if fallback == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return domain.WrapError(fallback, operation, err)
}

func hasKind(err error) bool {
	for _, kind := range []error{
		domain.ErrTemporary,
		domain.ErrUpstream,
		domain.ErrMissingCredential,
		domain.ErrInvalidInput,
		domain.ErrUnsupportedFormat,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
