// Package report persists and retrieves wasm-pack run records so the
// full output of a past invocation can be fetched without re-running it.
package report

import (
	"time"

	wasmpack "github.com/rainsound-ai/lib-wasm-pack"
)

// RunReport records a single wasm-pack invocation.
type RunReport struct {
	ID         string    `json:"id"`
	Binary     string    `json:"binary"`
	Args       []string  `json:"args"`
	Dir        string    `json:"dir,omitempty"`
	Start      time.Time `json:"start"`
	DurationMS int64     `json:"duration_ms"`

	// Started is false when the process could not be spawned at all;
	// in that case Err holds the failure and there is no output.
	Started  bool   `json:"started"`
	ExitCode int    `json:"exit_code"`
	Err      string `json:"error,omitempty"`

	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// Succeeded reports whether the run completed with a zero exit status.
func (r *RunReport) Succeeded() bool {
	return r.Started && r.ExitCode == 0 && r.Err == ""
}

// FromRun builds a RunReport from a runner outcome. Exactly one of out
// and runErr is meaningful; runErr may be a *wasmpack.StartError,
// a *wasmpack.ExitError, or any other error from the runner.
func FromRun(id, binary string, args []string, dir string, start time.Time, out *wasmpack.Output, runErr error) *RunReport {
	rr := &RunReport{
		ID:         id,
		Binary:     binary,
		Args:       args,
		Dir:        dir,
		Start:      start,
		DurationMS: time.Since(start).Milliseconds(),
	}

	switch e := runErr.(type) {
	case nil:
		rr.Started = true
		rr.Stdout = out.Stdout
		rr.Stderr = out.Stderr
	case *wasmpack.ExitError:
		rr.Started = true
		rr.ExitCode = e.ExitCode
		rr.Stdout = e.Output.Stdout
		rr.Stderr = e.Output.Stderr
	case *wasmpack.StartError:
		rr.Err = e.Error()
	default:
		rr.Err = runErr.Error()
	}
	return rr
}

// Store persists and retrieves run reports.
type Store interface {
	Save(report *RunReport) error
	Load(runID string) (*RunReport, error)
}
