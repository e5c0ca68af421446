package portal

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned by operations invoked before the
// authenticate / resolve-identity handshake has completed. No network call is
// made in that case.
var ErrNotAuthenticated = errors.New("not authenticated")

// AuthError reports a failed login or identity resolution. Message holds the
// human-readable cause: the server-reported message when the upstream supplied
// one, the transport error text otherwise.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// FailureKind classifies where a portal operation broke down.
type FailureKind string

const (
	// FailureTransport covers network errors, timeouts and non-2xx statuses.
	FailureTransport FailureKind = "transport"
	// FailureUpstream covers responses the portal delivered but that carry a
	// failure payload or a shape we cannot decode.
	FailureUpstream FailureKind = "upstream"
)

// PortalError reports a failed course operation. Message carries the upstream
// acknowledgement text verbatim when one exists, so callers can log exactly
// what the portal said.
type PortalError struct {
	Op      string
	Kind    FailureKind
	Message string
	Err     error
}

func (e *PortalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *PortalError) Unwrap() error {
	return e.Err
}

// ErrorMessage extracts the bare human-readable message from an auth or
// portal error, without the "op:" prefix Error() adds. Enrollment logging
// records upstream acknowledgements verbatim through this.
func ErrorMessage(err error) string {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Message
	}
	var pe *PortalError
	if errors.As(err, &pe) {
		return pe.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
