package doclytics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/HamiltonMussi/doclytics-go/internal/core/domain"
	"github.com/HamiltonMussi/doclytics-go/internal/infrastructure/resilience"
)

// StatusError is a service-rejected request: an HTTP response arrived with a
// >= 400 status. Message is the service-provided human-readable message, when
// the body carried one.
type StatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "doclytics status error"
	}
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("doclytics %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("doclytics %s status: %s: %s", e.Operation, e.Status, e.Message)
}

// ServiceMessage extracts the service-provided message from err, or returns
// fallback. Used to surface mutation failures to the user.
func ServiceMessage(err error, fallback string) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && strings.TrimSpace(statusErr.Message) != "" {
		return statusErr.Message
	}
	return fallback
}

// classifyIdempotent treats retryable statuses and connectivity failures as
// retryable. Used for reads and idempotent mutations (delete, clear, profile).
func classifyIdempotent(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}
	if domain.IsKind(err, domain.ErrConnectivity) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if retryableStatus(statusErr.StatusCode) {
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		}
		return resilience.ErrorClassification{}
	}
	return resilience.ErrorClassification{RecordFailure: true}
}

// classifyMutation never retries (upload and ask are not idempotent) but
// still lets connectivity and server-side failures trip the breaker.
func classifyMutation(err error) resilience.ErrorClassification {
	class := classifyIdempotent(err)
	class.Retryable = false
	return class
}

func retryableStatus(statusCode int) bool {
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
