package domain

import "errors"

// Failure taxonomy of the response pipeline. None of these reach callers of
// the public operations; they select a fallback and a metric label.
var (
	ErrNoCredential      = errors.New("no credential configured")
	ErrTransport         = errors.New("backend transport failure")
	ErrMalformedResponse = errors.New("malformed backend response")
	ErrDecode            = errors.New("audio decode failure")
)

// FailureReason maps an error onto its taxonomy label.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrNoCredential):
		return "no_credential"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrDecode):
		return "decode"
	default:
		return "transport"
	}
}
