package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// GatewayError classifies send gateway failures. Rejected reports whether the
// gateway itself answered with a non-success status, as opposed to the call
// never completing (timeout, connection refused, DNS failure).
type GatewayError struct {
	StatusCode int
	Message    string
	Transient  bool
	Cause      error
}

func (e *GatewayError) Error() string {
	if e == nil {
		return "<nil>"
	}

	parts := make([]string, 0, 4)
	parts = append(parts, "gateway error")

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		parts = append(parts, msg)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *GatewayError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Rejected reports whether the gateway answered and refused the send.
func (e *GatewayError) Rejected() bool {
	return e != nil && e.StatusCode > 0
}

// IsRejected reports whether err is a gateway response with a non-success
// status, rather than a transport-level failure.
func IsRejected(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr) && gwErr.Rejected()
}

// IsTransient reports whether a failed send could plausibly succeed on a
// later attempt.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr.Transient
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}
