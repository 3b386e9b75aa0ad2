// Command wasmpackctl runs wasm-pack with captured output and serves it
// to MCP clients.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	wasmpack "github.com/rainsound-ai/lib-wasm-pack"
	"github.com/rainsound-ai/lib-wasm-pack/internal/config"
	wpmcp "github.com/rainsound-ai/lib-wasm-pack/internal/mcp"
	"github.com/rainsound-ai/lib-wasm-pack/internal/report"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("wasmpackctl: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "run":
		err = runMain(args)
	case "mcp":
		err = mcpMain(args)
	case "version":
		fmt.Println(wasmpack.Version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "wasmpackctl: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: wasmpackctl <command> [flags] [args]

Commands:
  run         Run wasm-pack and print its captured output
  mcp         Start the MCP server
  version     Print the version
  help        Show this help

Use "wasmpackctl <command> -h" for command-specific flags.`)
}

// --- run ---

func runMain(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	dirFlag := fs.String("dir", "", "working directory for wasm-pack")
	jsonFlag := fs.Bool("json", false, "output the captured result as JSON")
	verboseFlag := fs.Bool("v", false, "trace each invocation step to stderr")
	timeoutFlag := fs.Duration("timeout", 0, "override configured timeout (e.g. 5m)")
	_ = fs.Parse(args)

	wasmArgs := fs.Args()
	if len(wasmArgs) == 0 {
		return errors.New("run: no wasm-pack arguments given")
	}

	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}

	loaded, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := loaded.Config

	timeout := cfg.Timeout()
	if *timeoutFlag > 0 {
		timeout = *timeoutFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	runner := &wasmpack.Runner{
		Binary: cfg.Binary,
		Dir:    *dirFlag,
	}
	if *verboseFlag {
		runner.Logf = log.Printf
	}

	out, runErr := runner.Run(ctx, wasmArgs)

	if *jsonFlag {
		return printJSON(out, runErr)
	}

	switch e := runErr.(type) {
	case nil:
		if out.Stdout != "" {
			fmt.Println(out.Stdout)
		}
		if out.Stderr != "" {
			fmt.Fprintln(os.Stderr, out.Stderr)
		}
		return nil
	case *wasmpack.ExitError:
		if e.Output.Stdout != "" {
			fmt.Println(e.Output.Stdout)
		}
		if e.Output.Stderr != "" {
			fmt.Fprintln(os.Stderr, e.Output.Stderr)
		}
		os.Exit(e.ExitCode)
		return nil
	default:
		return runErr
	}
}

// runJSON is the -json shape of a run outcome.
type runJSON struct {
	OK       bool   `json:"ok"`
	ExitCode int    `json:"exit_code"`
	Error    string `json:"error,omitempty"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

func printJSON(out *wasmpack.Output, runErr error) error {
	var r runJSON
	switch e := runErr.(type) {
	case nil:
		r = runJSON{OK: true, Stdout: out.Stdout, Stderr: out.Stderr}
	case *wasmpack.ExitError:
		r = runJSON{ExitCode: e.ExitCode, Stdout: e.Output.Stdout, Stderr: e.Output.Stderr}
	default:
		r = runJSON{ExitCode: -1, Error: runErr.Error()}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return err
	}
	if !r.OK {
		os.Exit(1)
	}
	return nil
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(wpmcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return serve(ctx, *httpAddr)
}

func serve(ctx context.Context, httpAddr string) error {
	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}

	loaded, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store := report.NewMemStore(5, report.NewDiskStore())
	server := wpmcp.NewServer(loaded.Config, store, workspace)

	if httpAddr != "" {
		return serveHTTP(ctx, server, httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
