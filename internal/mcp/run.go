package mcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	wasmpack "github.com/rainsound-ai/lib-wasm-pack"
	"github.com/rainsound-ai/lib-wasm-pack/internal/report"
)

type runParams struct {
	Args []string `json:"args" jsonschema:"Arguments for wasm-pack. The first is the subcommand (e.g. build, test, new); the rest are passed through verbatim."`
	Dir  string   `json:"dir,omitempty" jsonschema:"Working directory for wasm-pack, relative to the workspace root. Defaults to the workspace root."`
}

func (h *handler) runHandler(ctx context.Context, req *mcp.CallToolRequest, params runParams) (*mcp.CallToolResult, any, error) {
	if len(params.Args) == 0 {
		return errorResult("args must name a wasm-pack subcommand (e.g. build)")
	}

	dir := h.workspace
	if params.Dir != "" {
		if filepath.IsAbs(params.Dir) {
			dir = filepath.Clean(params.Dir)
		} else {
			dir = filepath.Join(h.workspace, params.Dir)
		}
	}

	runner := &wasmpack.Runner{
		Binary: h.cfg.Binary,
		Dir:    dir,
	}
	binary := runner.Binary
	if binary == "" {
		binary = wasmpack.CommandName
	}

	ctx, cancel := context.WithTimeout(ctx, h.cfg.Timeout())
	defer cancel()

	start := time.Now()
	out, runErr := runner.Run(ctx, params.Args)

	rr := report.FromRun(uuid.New().String(), binary, params.Args, dir, start, out, runErr)
	_ = h.store.Save(rr)

	return textResult(formatRun(rr, h.cfg.MaxOutputBytes()))
}

func formatRun(rr *report.RunReport, maxOutput int) string {
	var b strings.Builder

	switch {
	case rr.Succeeded():
		fmt.Fprintln(&b, "ok")
	case !rr.Started:
		fmt.Fprintln(&b, "FAIL (wasm-pack did not start)")
	default:
		fmt.Fprintf(&b, "FAIL (exit status %d)\n", rr.ExitCode)
	}
	fmt.Fprintf(&b, "Run: %s\n", rr.ID)
	fmt.Fprintln(&b)

	if rr.Err != "" {
		fmt.Fprintf(&b, "error: %s\n", rr.Err)
		return b.String()
	}

	writeStream(&b, "stdout", rr.Stdout, maxOutput, rr.ID)
	writeStream(&b, "stderr", rr.Stderr, maxOutput, rr.ID)

	return b.String()
}

// writeStream emits one captured stream, truncated to maxOutput bytes.
// Truncated streams point the reader at wasm_pack_report for the rest.
func writeStream(b *strings.Builder, name, text string, maxOutput int, runID string) {
	if text == "" {
		return
	}
	fmt.Fprintf(b, "%s:\n", name)
	if len(text) > maxOutput {
		fmt.Fprintln(b, text[:maxOutput])
		fmt.Fprintf(b, "... truncated; fetch the rest with wasm_pack_report(run_id=%q)\n", runID)
	} else {
		fmt.Fprintln(b, text)
	}
	fmt.Fprintln(b)
}
