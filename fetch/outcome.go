// Package fetch implements the resilient fetch clients: three interchangeable
// engine backends sharing one retry/backoff state machine and one adaptive
// pacing state.
package fetch

import "context"

// Kind tags a fetch outcome.
type Kind int

const (
	KindSuccess Kind = iota
	KindChallenge
	KindRateLimited
	KindForbidden
	KindTransportError
	KindExhausted
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindChallenge:
		return "challenge"
	case KindRateLimited:
		return "rate_limited"
	case KindForbidden:
		return "forbidden"
	case KindTransportError:
		return "transport_error"
	case KindExhausted:
		return "exhausted"
	}
	return "unknown"
}

// Outcome is the terminal result of one logical fetch. Intermediate attempt
// classifications stay inside the retry loop; callers only ever see
// KindSuccess, KindExhausted, or KindTransportError (cancellation).
type Outcome struct {
	Kind Kind
	Body []byte
	Err  error
}

// Reason returns the failure-ledger reason code for a non-success outcome.
func (o Outcome) Reason() string {
	if o.Kind == KindSuccess {
		return ""
	}
	return o.Kind.String()
}

// Engine is the single contract all three fetch backends implement. Engine
// selection is a run-level configuration choice, never per-call dispatch.
type Engine interface {
	Fetch(ctx context.Context, url, label string) Outcome
}
