package nats

import (
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/kirillkom/resume-screener/internal/core/domain"
	"github.com/kirillkom/resume-screener/internal/infrastructure/resilience"
)

const publishOperation = "publish analysis stored"

// classifyPublishError: a lost connection is worth another try, an event the
// server refuses (bad subject, oversized payload) is not.
func classifyPublishError(err error) resilience.ErrorClassification {
	if class, ok := resilience.ClassifyCommon(err); ok {
		return class
	}
	switch {
	case errors.Is(err, nats.ErrNoServers),
		errors.Is(err, nats.ErrTimeout),
		errors.Is(err, nats.ErrConnectionClosed),
		errors.Is(err, nats.ErrConnectionReconnecting),
		errors.Is(err, nats.ErrDisconnected):
		return resilience.Transient
	case isRejectedEvent(err):
		return resilience.Ignored
	default:
		return resilience.Permanent
	}
}

func wrapPublishError(err error) error {
	if isRejectedEvent(err) {
		return domain.WrapError(domain.ErrInvalidInput, publishOperation, err)
	}
	return resilience.WrapKind(publishOperation, err, classifyPublishError, nil)
}

func isRejectedEvent(err error) bool {
	return errors.Is(err, nats.ErrBadSubject) || errors.Is(err, nats.ErrMaxPayload)
}
