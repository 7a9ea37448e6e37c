// Package logger provides verbose logging for the Argonaut CLI.
// When verbose mode is enabled via the --verbose flag, debug messages
// are printed to stderr to trace ingestion, retrieval and generation.
// Recovered faults are reported regardless of verbosity.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Debug traces a step of ingestion, retrieval or generation.
func Debug(format string, args ...any) {
	emit("[DEBUG] ", false, format, args...)
}

// Section starts a named block of verbose output, such as "Ingest".
func Section(name string) {
	emit("\n=== ", false, "%s ===", name)
}

// Info prints an informational message in verbose mode.
func Info(format string, args ...any) {
	emit("[INFO] ", false, format, args...)
}

// Warn prints a warning in verbose mode.
func Warn(format string, args ...any) {
	emit("[WARN] ", false, format, args...)
}

// Recovered reports a fault that was handled without failing the operation,
// such as a corrupt log file read as empty. It prints even when not verbose.
func Recovered(format string, args ...any) {
	emit("[WARN] ", true, format, args...)
}

func emit(prefix string, always bool, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if always || verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

// Timed logs the wall time of a phase when the returned func is called.
//
//	defer logger.Timed("embed chunks")()
func Timed(name string) func() {
	start := time.Now()
	return func() {
		Debug("%s took %s", name, time.Since(start).Round(time.Millisecond))
	}
}
