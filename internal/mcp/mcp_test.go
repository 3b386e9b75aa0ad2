package mcp

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rainsound-ai/lib-wasm-pack/internal/config"
	"github.com/rainsound-ai/lib-wasm-pack/internal/report"
)

// setup creates an MCP server + client over in-memory transports.
// cfg.Binary points the runner at a stand-in executable so tests do not
// need wasm-pack installed.
func setup(t *testing.T, cfg *config.Config) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	store := report.NewMemStore(5, report.NewDiskStore())
	server := NewServer(cfg, store, t.TempDir())

	ct, st := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, st, nil)
	if err != nil {
		t.Fatalf("server.Connect: %v", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatalf("client.Connect: %v", err)
	}

	t.Cleanup(func() {
		_ = cs.Close()
		_ = ss.Wait()
	})

	return cs
}

func callTool(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return res
}

func resultText(r *mcp.CallToolResult) string {
	var parts []string
	for _, c := range r.Content {
		if tc, ok := c.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}

var runIDPattern = regexp.MustCompile(`Run: (\S+)`)

func extractRunID(t *testing.T, text string) string {
	t.Helper()
	m := runIDPattern.FindStringSubmatch(text)
	if m == nil {
		t.Fatalf("no Run: id in output:\n%s", text)
	}
	return m[1]
}

// --- wasm_pack_run ---

func TestWasmPackRun_Success(t *testing.T) {
	cs := setup(t, &config.Config{Binary: "echo"})

	res := callTool(t, cs, "wasm_pack_run", map[string]any{
		"args": []string{"build", "--release"},
	})
	text := resultText(res)
	if res.IsError {
		t.Fatalf("unexpected error: %s", text)
	}
	if !strings.HasPrefix(text, "ok") {
		t.Errorf("expected ok status, got:\n%s", text)
	}
	if !strings.Contains(text, "build --release") {
		t.Errorf("expected echoed args in stdout, got:\n%s", text)
	}
	if !strings.Contains(text, "Run:") {
		t.Errorf("expected Run: in output, got:\n%s", text)
	}
}

func TestWasmPackRun_NonZeroExit(t *testing.T) {
	cs := setup(t, &config.Config{Binary: "sh"})

	res := callTool(t, cs, "wasm_pack_run", map[string]any{
		"args": []string{"-c", "echo compiling; echo broken >&2; exit 1"},
	})
	text := resultText(res)
	if !strings.Contains(text, "FAIL (exit status 1)") {
		t.Errorf("expected exit status 1, got:\n%s", text)
	}
	if !strings.Contains(text, "compiling") || !strings.Contains(text, "broken") {
		t.Errorf("expected captured output in summary, got:\n%s", text)
	}
}

func TestWasmPackRun_BinaryNotFound(t *testing.T) {
	cs := setup(t, &config.Config{Binary: "nonexistent-binary-xyz-123"})

	res := callTool(t, cs, "wasm_pack_run", map[string]any{
		"args": []string{"build"},
	})
	text := resultText(res)
	if !strings.Contains(text, "did not start") {
		t.Errorf("expected did-not-start status, got:\n%s", text)
	}
}

func TestWasmPackRun_EmptyArgs(t *testing.T) {
	cs := setup(t, &config.Config{Binary: "echo"})

	res := callTool(t, cs, "wasm_pack_run", map[string]any{
		"args": []string{},
	})
	if !res.IsError {
		t.Fatalf("expected error result for empty args, got:\n%s", resultText(res))
	}
}

func TestWasmPackRun_TruncatesLongOutput(t *testing.T) {
	cs := setup(t, &config.Config{Binary: "sh", RawMaxOutput: 16})

	res := callTool(t, cs, "wasm_pack_run", map[string]any{
		"args": []string{"-c", "printf 'aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa'"},
	})
	text := resultText(res)
	if !strings.Contains(text, "truncated") {
		t.Errorf("expected truncation notice, got:\n%s", text)
	}
	if !strings.Contains(text, "wasm_pack_report") {
		t.Errorf("expected report hint, got:\n%s", text)
	}
}

// --- wasm_pack_report ---

func TestWasmPackReport_RoundTrip(t *testing.T) {
	cs := setup(t, &config.Config{Binary: "sh", RawMaxOutput: 8})

	runRes := callTool(t, cs, "wasm_pack_run", map[string]any{
		"args": []string{"-c", "echo the full untruncated output line"},
	})
	runID := extractRunID(t, resultText(runRes))

	repRes := callTool(t, cs, "wasm_pack_report", map[string]any{
		"run_id": runID,
	})
	text := resultText(repRes)
	if repRes.IsError {
		t.Fatalf("unexpected error: %s", text)
	}
	if !strings.Contains(text, "the full untruncated output line") {
		t.Errorf("expected complete stdout in report, got:\n%s", text)
	}
	if !strings.Contains(text, "Status: ok") {
		t.Errorf("expected Status: ok, got:\n%s", text)
	}
}

func TestWasmPackReport_UnknownRunID(t *testing.T) {
	cs := setup(t, &config.Config{Binary: "echo"})

	res := callTool(t, cs, "wasm_pack_report", map[string]any{
		"run_id": "no-such-run",
	})
	if !res.IsError {
		t.Fatalf("expected error result, got:\n%s", resultText(res))
	}
}

func TestWasmPackReport_MissingRunID(t *testing.T) {
	cs := setup(t, &config.Config{Binary: "echo"})

	res := callTool(t, cs, "wasm_pack_report", map[string]any{
		"run_id": "",
	})
	if !res.IsError {
		t.Fatalf("expected error result, got:\n%s", resultText(res))
	}
}
