// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem under the Argonaut
// home directory (~/.argonaut, or $ARGONAUT_HOME).
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: editable prompt templates with built-in fallbacks
//   - WatchPrompts: reloads the PromptStore when templates change on disk
package file
