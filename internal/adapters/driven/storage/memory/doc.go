// Package memory provides in-memory implementations of the driven store ports.
// Nothing is persisted; contents are lost when the process exits.
package memory
