package wasmpack

import (
	"fmt"
	"strings"
)

// StartError reports that the wasm-pack process never ran: the binary
// was not found on PATH, was not executable, or an argument could not
// be represented. There is no output payload because no process started.
type StartError struct {
	Name string // the binary that could not be started
	Err  error  // the underlying cause
}

func (e *StartError) Error() string {
	return fmt.Sprintf("couldn't invoke %s: %v", e.Name, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }

// ExitError reports that wasm-pack started and exited with a non-zero
// status. It carries the full captured output so the failure can be
// diagnosed without re-running the tool.
type ExitError struct {
	ExitCode int
	Output   Output
}

// Error includes the captured stdout and stderr verbatim, stdout first.
func (e *ExitError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "wasm-pack exited with status %d:\n\n", e.ExitCode)
	fmt.Fprintf(&b, "stdout:\n%s\n\n", e.Output.Stdout)
	fmt.Fprintf(&b, "stderr:\n%s\n", e.Output.Stderr)
	return b.String()
}
