package corrade

import "fmt"

// ErrorKind classifies a failed bridge command.
type ErrorKind int

const (
	// KindRejected means the remote processed the command and refused it.
	// Retrying the same command will not change the answer.
	KindRejected ErrorKind = iota

	// KindThrottled means the bridge pushed back on request rate.
	KindThrottled

	// KindUnavailable covers network failures, timeouts and 5xx responses.
	KindUnavailable
)

// String returns the kind's wire-friendly name.
func (k ErrorKind) String() string {
	switch k {
	case KindRejected:
		return "rejected"
	case KindThrottled:
		return "throttled"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error describes a failed Corrade command.
type Error struct {
	Action string
	Path   string
	Kind   ErrorKind
	Err    error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("corrade %s %s: %s: %v", e.Action, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("corrade %s: %s: %v", e.Action, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether a later attempt could succeed.
func (e *Error) Retryable() bool { return e.Kind != KindRejected }
