package core

import (
	"errors"
	"fmt"
)

// FailureKind classifies every failure the core recovers from.
type FailureKind int

const (
	// ProvisioningFailure covers tool provider connection errors and empty tool sets.
	ProvisioningFailure FailureKind = iota + 1
	// RetrievalFailure covers the optional supplementary context lookup.
	RetrievalFailure
	// BackendFailure covers language model errors, single-shot or mid-stream.
	BackendFailure
	// ShutdownCleanupFailure covers errors releasing provider handles at teardown.
	ShutdownCleanupFailure
)

// String returns a snake_case name suitable for log fields.
func (k FailureKind) String() string {
	switch k {
	case ProvisioningFailure:
		return "provisioning_failure"
	case RetrievalFailure:
		return "retrieval_failure"
	case BackendFailure:
		return "backend_failure"
	case ShutdownCleanupFailure:
		return "shutdown_cleanup_failure"
	default:
		return "unknown_failure"
	}
}

// Recovery names how a failure is absorbed before it could reach a caller.
type Recovery int

const (
	// RecoverWithFallback substitutes the local fallback tool set.
	RecoverWithFallback Recovery = iota + 1
	// RecoverWithEmptyContext continues the request without supplementary context.
	RecoverWithEmptyContext
	// RecoverWithTerminalEvent ends the event stream with a human readable message.
	RecoverWithTerminalEvent
	// RecoverByLogging records the failure and carries on.
	RecoverByLogging
)

// String returns a snake_case name suitable for log fields.
func (r Recovery) String() string {
	switch r {
	case RecoverWithFallback:
		return "fallback"
	case RecoverWithEmptyContext:
		return "empty_context"
	case RecoverWithTerminalEvent:
		return "terminal_event"
	case RecoverByLogging:
		return "log_only"
	default:
		return "unknown"
	}
}

var recoveryPolicy = map[FailureKind]Recovery{
	ProvisioningFailure:    RecoverWithFallback,
	RetrievalFailure:       RecoverWithEmptyContext,
	BackendFailure:         RecoverWithTerminalEvent,
	ShutdownCleanupFailure: RecoverByLogging,
}

// RecoveryFor returns the recovery applied to kind. Unknown kinds are only logged.
func RecoveryFor(kind FailureKind) Recovery {
	if r, ok := recoveryPolicy[kind]; ok {
		return r
	}
	return RecoverByLogging
}

// Failure is an error tagged with the failure kind and the operation that produced it.
type Failure struct {
	Kind FailureKind
	Op   string
	Err  error
}

// NewFailure wraps err. It returns nil when err is nil.
func NewFailure(kind FailureKind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Failure{Kind: kind, Op: op, Err: err}
}

func (f *Failure) Error() string {
	if f.Op == "" {
		return fmt.Sprintf("%s: %v", f.Kind, f.Err)
	}
	return fmt.Sprintf("%s: %s: %v", f.Kind, f.Op, f.Err)
}

// Unwrap returns the wrapped error.
func (f *Failure) Unwrap() error { return f.Err }

// Recovery returns the policy entry for the failure's kind.
func (f *Failure) Recovery() Recovery { return RecoveryFor(f.Kind) }

// KindOf extracts the FailureKind from err, reporting false when err carries none.
func KindOf(err error) (FailureKind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return 0, false
}
