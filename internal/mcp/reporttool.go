package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rainsound-ai/lib-wasm-pack/internal/report"
)

type reportParams struct {
	RunID string `json:"run_id" jsonschema:"The run identifier returned by wasm_pack_run."`
}

func (h *handler) reportHandler(ctx context.Context, req *mcp.CallToolRequest, params reportParams) (*mcp.CallToolResult, any, error) {
	if params.RunID == "" {
		return errorResult("run_id is required")
	}

	rr, err := h.store.Load(params.RunID)
	if err != nil {
		return errorResult(fmt.Sprintf("loading run %s: %v", params.RunID, err))
	}

	return textResult(formatReport(rr))
}

func formatReport(rr *report.RunReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s\n", rr.ID)
	fmt.Fprintf(&b, "Command: %s %s\n", rr.Binary, strings.Join(rr.Args, " "))
	if rr.Dir != "" {
		fmt.Fprintf(&b, "Dir: %s\n", rr.Dir)
	}
	fmt.Fprintf(&b, "Started: %s (%dms)\n", rr.Start.Format("2006-01-02 15:04:05 MST"), rr.DurationMS)

	switch {
	case rr.Succeeded():
		fmt.Fprintln(&b, "Status: ok")
	case !rr.Started:
		fmt.Fprintf(&b, "Status: did not start (%s)\n", rr.Err)
	default:
		fmt.Fprintf(&b, "Status: exit %d\n", rr.ExitCode)
	}
	fmt.Fprintln(&b)

	if rr.Stdout != "" {
		fmt.Fprintf(&b, "stdout:\n%s\n\n", rr.Stdout)
	}
	if rr.Stderr != "" {
		fmt.Fprintf(&b, "stderr:\n%s\n", rr.Stderr)
	}

	return b.String()
}
