package wasmpack

// Output holds the captured streams of a completed wasm-pack run.
// It is constructed by this package and never mutated afterwards.
type Output struct {
	// Stdout is the decoded standard output of the child process.
	Stdout string

	// Stderr is the decoded standard error of the child process.
	// wasm-pack writes most of its progress reporting here.
	Stderr string
}
