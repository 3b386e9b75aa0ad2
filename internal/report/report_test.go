package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	wasmpack "github.com/rainsound-ai/lib-wasm-pack"
)

func TestFromRun_Success(t *testing.T) {
	out := &wasmpack.Output{Stdout: "wasm-pack 0.12.1", Stderr: ""}
	rr := FromRun("run-1", "wasm-pack", []string{"--version"}, "", time.Now(), out, nil)

	if !rr.Succeeded() {
		t.Error("Succeeded() = false, want true")
	}
	if !rr.Started {
		t.Error("Started = false, want true")
	}
	if rr.Stdout != "wasm-pack 0.12.1" {
		t.Errorf("Stdout = %q, want the captured output", rr.Stdout)
	}
	if rr.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", rr.ExitCode)
	}
}

func TestFromRun_ExitError(t *testing.T) {
	runErr := &wasmpack.ExitError{
		ExitCode: 1,
		Output:   wasmpack.Output{Stdout: "partial", Stderr: "Error: no Cargo.toml"},
	}
	rr := FromRun("run-2", "wasm-pack", []string{"build", "missing"}, "", time.Now(), nil, runErr)

	if rr.Succeeded() {
		t.Error("Succeeded() = true, want false")
	}
	if !rr.Started {
		t.Error("Started = false, want true for a process that ran")
	}
	if rr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", rr.ExitCode)
	}
	if rr.Stdout != "partial" || rr.Stderr != "Error: no Cargo.toml" {
		t.Errorf("output = (%q, %q), want the embedded output", rr.Stdout, rr.Stderr)
	}
}

func TestFromRun_StartError(t *testing.T) {
	runErr := &wasmpack.StartError{Name: "wasm-pack", Err: errors.New("executable file not found in $PATH")}
	rr := FromRun("run-3", "wasm-pack", []string{"build"}, "", time.Now(), nil, runErr)

	if rr.Started {
		t.Error("Started = true, want false for a spawn failure")
	}
	if rr.Stdout != "" || rr.Stderr != "" {
		t.Error("spawn failure must carry no output payload")
	}
	if !strings.Contains(rr.Err, "not found") {
		t.Errorf("Err = %q, want the spawn failure text", rr.Err)
	}
}
