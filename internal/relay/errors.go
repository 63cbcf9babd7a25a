package relay

import (
	"errors"
	"fmt"
)

// Kind classifies a failed summary request.
type Kind int

const (
	// KindTransport covers connection failures and bodies that cannot be decoded.
	KindTransport Kind = iota
	// KindUpstream means the relay answered with a non-success status.
	KindUpstream
	// KindEmpty means the relay answered but carried no usable text.
	KindEmpty
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUpstream:
		return "upstream"
	case KindEmpty:
		return "empty"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by RequestSummary for every failure.
type Error struct {
	Kind   Kind
	Status int // HTTP status, set for KindUpstream
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindUpstream:
		return fmt.Sprintf("relay %s failure: status %d", e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("relay %s failure: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("relay %s failure", e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Messages shown in place of a summary, one per Kind.
const (
	MessageTransport = "Error: Backend connection failed."
	MessageUpstream  = "Error: AI analysis failed on the server."
	MessageEmpty     = "No response."
)

// UserMessage is the short text shown in place of a summary.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindEmpty:
		return MessageEmpty
	case KindUpstream:
		return MessageUpstream
	default:
		return MessageTransport
	}
}

// KindOf reports the Kind of err, and false when err is not a relay error.
func KindOf(err error) (Kind, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return 0, false
}
