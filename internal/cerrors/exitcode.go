package cerrors

import "errors"

// Exit codes for the one-shot condense CLI mode (internal/cli's
// "condense" subcommand). The long-lived proxy server never exits on
// a CondenserError -- these only matter where a process exit code is
// observable, grounded on the teacher's pipeline.ExitCode scheme,
// adapted from the teacher's three exit codes to one per Kind, except
// NotStructured, which shares ExitError.
const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitBadConfig = 2
	ExitUpstream  = 3
	ExitOversize  = 4
)

// ExitCodeFor maps err to a process exit code for the CLI. A nil err
// is ExitSuccess; a non-CondenserError is ExitError; a CondenserError
// maps by Kind.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ce *CondenserError
	if !errors.As(err, &ce) {
		return ExitError
	}
	switch ce.Kind {
	case BadConfig:
		return ExitBadConfig
	case Upstream:
		return ExitUpstream
	case OversizeInput:
		return ExitOversize
	default:
		return ExitError
	}
}
