// Package driving lists the operations the CLI, the TUI and the MCP server
// invoke on the core. The services package implements every interface here.
package driving
