package autograd

import "github.com/pkg/errors"

// Error categories. Callers test them with errors.Is; the wrapped message
// carries the specifics.
var (
	// ErrArgument reports a malformed request (mismatched lengths, unknown
	// policy name). It is raised before any engine call, so no partial state
	// has been committed.
	ErrArgument = errors.New("autograd: invalid argument")

	// ErrUsage reports misuse of the API, such as invoking a single-use
	// Function twice.
	ErrUsage = errors.New("autograd: invalid usage")

	// ErrCallback reports a fault inside user-supplied forward or backward
	// logic, contained at the callback boundary.
	ErrCallback = errors.New("autograd: callback failure")

	// ErrEngine reports a failure from the graph engine. The core never
	// retries or suppresses engine failures.
	ErrEngine = errors.New("autograd: engine failure")
)

func argumentErrorf(format string, args ...any) error {
	return errors.Wrapf(ErrArgument, format, args...)
}

func engineFault(cause error) error {
	return errors.Wrapf(ErrEngine, "%v", cause)
}
