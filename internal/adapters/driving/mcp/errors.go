// Package mcp provides an MCP (Model Context Protocol) server adapter for Argonaut.
// It lets AI assistants query ingested papers, brainstorm hypotheses and
// search the literature through Argonaut's services.
package mcp

import "errors"

// ErrMissingIndexService is returned when the index service is not provided.
var ErrMissingIndexService = errors.New("mcp: index service is required")

// errToolUnavailable is returned by tools whose backing service is not wired.
var errToolUnavailable = errors.New("mcp: tool not available")
