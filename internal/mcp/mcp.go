// Package mcp provides the lib-wasm-pack MCP server, exposing wasm-pack
// invocation and run-report retrieval as tools.
package mcp

import (
	"context"
	_ "embed"
	"net/url"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	wasmpack "github.com/rainsound-ai/lib-wasm-pack"
	"github.com/rainsound-ai/lib-wasm-pack/internal/config"
	"github.com/rainsound-ai/lib-wasm-pack/internal/report"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	cfg       *config.Config
	store     report.Store
	workspace string
}

// NewServer creates an MCP server with the wasm-pack tools registered.
func NewServer(cfg *config.Config, store report.Store, workspace string) *mcp.Server {
	h := &handler{
		cfg:       cfg,
		store:     store,
		workspace: workspace,
	}

	opts := &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
		InitializedHandler: func(ctx context.Context, req *mcp.InitializedRequest) {
			h.updateWorkspaceFromRoots(ctx, req.Session)
		},
	}
	s := mcp.NewServer(&mcp.Implementation{Name: "lib-wasm-pack", Version: wasmpack.Version}, opts)

	mcp.AddTool(s, &mcp.Tool{
		Name: "wasm_pack_run",
		Description: `Run wasm-pack with the given arguments and capture its output.

The first argument is the wasm-pack subcommand (e.g. build, test, new);
the rest are passed through verbatim. The run is recorded and the full
output can be fetched later with wasm_pack_report.`,
	}, h.runHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "wasm_pack_report",
		Description: `Fetch the full record of a past wasm_pack_run invocation.

Use the run_id from the wasm_pack_run output. Returns the complete
stdout and stderr, untruncated, plus the argv and exit status.`,
	}, h.reportHandler)

	return s
}

// updateWorkspaceFromRoots queries the client for MCP roots and updates
// the handler's workspace and config if a valid root is returned.
// This is called during session initialization, before any tool calls.
func (h *handler) updateWorkspaceFromRoots(ctx context.Context, session *mcp.ServerSession) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	roots, err := session.ListRoots(ctx, &mcp.ListRootsParams{})
	if err != nil {
		return
	}
	if len(roots.Roots) == 0 {
		return
	}

	u, err := url.Parse(roots.Roots[0].URI)
	if err != nil || u.Scheme != "file" {
		return
	}
	workspace := u.Path

	loaded, err := config.Load(workspace)
	if err != nil {
		return
	}

	h.workspace = workspace
	h.cfg = loaded.Config
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
