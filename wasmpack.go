// Package wasmpack invokes the wasm-pack command-line tool and returns
// its captured output as structured values.
//
// The package is a thin process boundary: it builds an argument vector,
// spawns wasm-pack as a child process, blocks until it exits, and hands
// back stdout/stderr. It performs no argument validation beyond
// pass-through and no wasm-pack version management; the binary is
// resolved on the host PATH.
//
//	out, err := wasmpack.Run("build", "--out-dir", "../target/built", "my-crate")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(out.Stdout)
package wasmpack

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommandName is the executable resolved on the host PATH when no
// explicit binary is configured.
const CommandName = "wasm-pack"

// Runner invokes wasm-pack. The zero value is ready to use: it resolves
// CommandName on PATH, runs in the caller's working directory, and
// inherits the caller's environment.
//
// A Runner holds no per-run state and is safe for concurrent use; each
// call spawns its own child process.
type Runner struct {
	// Binary is the executable name or path. Empty means CommandName.
	Binary string

	// Dir is the working directory for the child process.
	// Empty means the caller's working directory.
	Dir string

	// Env is the child's environment. Nil means inherit.
	Env []string

	// Logf, when non-nil, receives a trace of each invocation step
	// (arguments, resolved binary, exit). Printf-style.
	Logf func(format string, args ...any)
}

// Run invokes wasm-pack with args using a zero Runner and no deadline.
// The first argument is the wasm-pack subcommand; the rest are passed
// through verbatim.
func Run(args ...string) (*Output, error) {
	return (&Runner{}).Run(context.Background(), args)
}

// Run spawns wasm-pack with the given arguments and blocks until it
// exits. Stdout and stderr are fully buffered, never inherited.
//
// On a zero exit status it returns the captured Output. If the process
// could not be started it returns a *StartError; if it exited non-zero
// it returns an *ExitError carrying the captured output. The context
// bounds the child's lifetime for callers that need it; the package
// itself imposes no timeout.
func (r *Runner) Run(ctx context.Context, args []string) (*Output, error) {
	if len(args) == 0 {
		return nil, errors.New("wasmpack: empty argument list")
	}

	bin := r.Binary
	if bin == "" {
		bin = CommandName
	}

	// NUL cannot cross the exec boundary on any supported platform.
	// Reject it up front instead of relying on platform-specific
	// behaviour from the exec syscall.
	for _, a := range args {
		if strings.IndexByte(a, 0) >= 0 {
			return nil, &StartError{
				Name: bin,
				Err:  fmt.Errorf("argument %q contains a NUL byte", a),
			}
		}
	}

	r.logf("running %s with args: %q", bin, args)

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = r.Dir
	if r.Env != nil {
		cmd.Env = r.Env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	out := &Output{
		Stdout: decodeStream(stdout.Bytes()),
		Stderr: decodeStream(stderr.Bytes()),
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			r.logf("%s exited with status %d", bin, exitErr.ExitCode())
			return nil, &ExitError{ExitCode: exitErr.ExitCode(), Output: *out}
		}
		// Binary not found, permission denied, or the context killed
		// the process before it started.
		r.logf("could not start %s: %v", bin, runErr)
		return nil, &StartError{Name: bin, Err: runErr}
	}

	r.logf("%s finished successfully", bin)
	return out, nil
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logf != nil {
		r.Logf(format, args...)
	}
}

// decodeStream converts raw captured bytes to text. Invalid UTF-8 is
// replaced rather than rejected, and surrounding whitespace is trimmed,
// matching how wasm-pack output is conventionally presented.
func decodeStream(b []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(b), "�"))
}
