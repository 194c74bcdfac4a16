package gitea

import "fmt"

// FailureKind classifies why an invocation did not produce a payload.
type FailureKind string

const (
	// KindUnknownOperation: the tool name is not in the registry. No request was made.
	KindUnknownOperation FailureKind = "unknown_operation"
	// KindInvalidArgument: a required argument is missing or an argument has the
	// wrong type. No request was made.
	KindInvalidArgument FailureKind = "invalid_argument"
	// KindTransportError: the request never produced an HTTP response
	// (connection refused, TLS failure, timeout).
	KindTransportError FailureKind = "transport_error"
	// KindMalformedResponse: upstream returned 2xx but the body is not valid JSON.
	KindMalformedResponse FailureKind = "malformed_response"
	// KindAuthError: upstream returned 401 or 403.
	KindAuthError FailureKind = "auth_error"
	// KindNotFound: upstream returned 404.
	KindNotFound FailureKind = "not_found"
	// KindConflict: upstream returned 409 or 422.
	KindConflict FailureKind = "conflict"
	// KindUpstreamError: any other 4xx/5xx.
	KindUpstreamError FailureKind = "upstream_error"
	// KindCancelled: the caller cancelled the invocation while the request was in flight.
	KindCancelled FailureKind = "cancelled"
)

// Failure is the error type returned by Dispatcher.Invoke. Every failure
// carries a machine-readable kind and a human-readable message;
// UpstreamStatus is set only for failures derived from an HTTP response.
type Failure struct {
	Kind           FailureKind
	Message        string
	UpstreamStatus int
}

func (f *Failure) Error() string {
	if f.UpstreamStatus > 0 {
		return fmt.Sprintf("%s (%d): %s", f.Kind, f.UpstreamStatus, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// failf builds a Failure with a formatted message.
func failf(kind FailureKind, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// upstreamFailf builds a Failure carrying an upstream HTTP status.
func upstreamFailf(kind FailureKind, status int, format string, args ...interface{}) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...), UpstreamStatus: status}
}
