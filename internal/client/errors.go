package client

import "errors"

// Failure kinds. Callers never see these: every failure is absorbed at the
// client boundary and reported as a nil payload plus one diagnostic. They
// classify the diagnostic and the upstream_failures_total metric.
var (
	ErrRequest = errors.New("request failed")
	ErrStatus  = errors.New("unexpected status")
	ErrDecode  = errors.New("decode response failed")
	ErrEncode  = errors.New("encode request failed")
)

// failureKind maps a wrapped failure onto its metric label.
func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrEncode):
		return "encode"
	default:
		return "transport"
	}
}
