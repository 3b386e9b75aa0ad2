package wasmpack

// Version is the lib-wasm-pack release version, reported by the CLI
// and the MCP server implementation metadata.
const Version = "0.2.0"
