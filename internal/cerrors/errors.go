// Package cerrors defines the condensing core's single structured error
// type, carrying an error Kind rather than a process exit code since
// the core runs inside a long-lived server (spec §7).
package cerrors

import "fmt"

// Kind names one of the four error categories spec §7 defines.
type Kind int

const (
	// NotStructured: parse_input found no matching parser.
	NotStructured Kind = iota
	// BadConfig: unknown heuristic name, malformed config file, missing
	// required URL, or a tool-name collision across upstreams.
	BadConfig
	// Upstream: transport-level failure from the upstream RPC.
	Upstream
	// OversizeInput: an implementation-defined payload ceiling was exceeded.
	OversizeInput
)

func (k Kind) String() string {
	switch k {
	case NotStructured:
		return "not_structured"
	case BadConfig:
		return "bad_config"
	case Upstream:
		return "upstream"
	case OversizeInput:
		return "oversize_input"
	default:
		return "unknown"
	}
}

// CondenserError is the core's only error type. It carries a Kind for
// callers that branch on category (the governor treats NotStructured as
// passthrough, never as a propagated error) and an optional wrapped
// cause for errors.As/errors.Is chains.
type CondenserError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *CondenserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CondenserError) Unwrap() error {
	return e.Err
}

// New constructs a CondenserError with no wrapped cause.
func New(kind Kind, message string) *CondenserError {
	return &CondenserError{Kind: kind, Message: message}
}

// Wrap constructs a CondenserError wrapping an underlying cause.
func Wrap(kind Kind, message string, err error) *CondenserError {
	return &CondenserError{Kind: kind, Message: message, Err: err}
}
