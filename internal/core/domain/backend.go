package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Backend selects the language model inference backend.
type Backend string

// Available backends.
const (
	// BackendUnspecified defers the choice to LLMConfig.ResolvedBackend.
	BackendUnspecified Backend = ""

	// BackendHosted is a hosted model reached with an API key.
	BackendHosted Backend = "hosted"

	// BackendLlama serves GGUF model files through the llama.cpp family.
	BackendLlama Backend = "llama"

	// BackendGPTJ serves GPT4All-J family model files.
	BackendGPTJ Backend = "gptj"

	// BackendAuto lets the local runtime pick the family for the file.
	BackendAuto Backend = "auto"
)

// IsValid returns true if the backend is recognised.
func (b Backend) IsValid() bool {
	switch b {
	case BackendHosted, BackendLlama, BackendGPTJ, BackendAuto:
		return true
	default:
		return false
	}
}

// IsLocal returns true if the backend runs an on-disk model file.
func (b Backend) IsLocal() bool {
	return b == BackendLlama || b == BackendGPTJ || b == BackendAuto
}

// String returns the string representation.
func (b Backend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b Backend) Description() string {
	switch b {
	case BackendHosted:
		return "Hosted model (API key)"
	case BackendLlama:
		return "Local GGUF model (llama.cpp family)"
	case BackendGPTJ:
		return "Local GPT4All-J model"
	case BackendAuto:
		return "Local model (runtime default)"
	default:
		return unknownDescription
	}
}

// ParseBackend converts a user-supplied name into a Backend.
// An empty string yields BackendUnspecified.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	if b == BackendUnspecified || b.IsValid() {
		return b, nil
	}
	return BackendUnspecified, fmt.Errorf("%w: unknown backend %q", ErrConfiguration, s)
}

// AllBackends returns every selectable backend.
func AllBackends() []Backend {
	return []Backend{BackendHosted, BackendLlama, BackendGPTJ, BackendAuto}
}

// InferBackendFromFilename guesses the local backend family from a model
// file name. It is best-effort: unfamiliar names fall back to BackendAuto
// and may misselect. Pass an explicit Backend when the family is known.
func InferBackendFromFilename(path string) Backend {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(name, ".gguf"), strings.Contains(name, "mistral"), strings.Contains(name, "llama"):
		return BackendLlama
	case strings.Contains(name, "gpt4all-j"), strings.Contains(name, "groovy"):
		return BackendGPTJ
	default:
		return BackendAuto
	}
}

// DefaultLLMTimeout bounds a single backend invocation.
const DefaultLLMTimeout = 120 * time.Second

// LLMConfig selects and parameterises the language model for one request.
// Exactly one of RemoteAPIKey and LocalModelPath must be set.
type LLMConfig struct {
	// RemoteAPIKey selects a hosted model authenticated with this key.
	RemoteAPIKey string

	// LocalModelPath selects an on-disk model file.
	LocalModelPath string

	// Backend optionally pins the backend. When unspecified it is
	// derived from the other fields.
	Backend Backend

	// HostedProvider picks the hosted API. Defaults to OpenAI.
	HostedProvider AIProvider

	// Model overrides the hosted model name.
	Model string

	// BaseURL overrides the backend endpoint.
	BaseURL string

	// Temperature is the sampling temperature.
	Temperature float64

	// TemperatureSet marks Temperature as chosen for this request. Services
	// with their own default temperature only apply it when this is false.
	TemperatureSet bool

	// Timeout bounds each backend call. Zero means DefaultLLMTimeout.
	Timeout time.Duration
}

// Validate checks that the configuration names exactly one usable backend.
func (c LLMConfig) Validate() error {
	hasKey := strings.TrimSpace(c.RemoteAPIKey) != ""
	hasPath := strings.TrimSpace(c.LocalModelPath) != ""

	switch {
	case !hasKey && !hasPath:
		return fmt.Errorf("%w: no LLM source provided (API key or local model path)", ErrConfiguration)
	case hasKey && hasPath:
		return fmt.Errorf("%w: both API key and local model path are set", ErrConfiguration)
	}

	if c.Backend != BackendUnspecified {
		if !c.Backend.IsValid() {
			return fmt.Errorf("%w: unknown backend %q", ErrConfiguration, c.Backend)
		}
		if hasKey && c.Backend != BackendHosted {
			return fmt.Errorf("%w: backend %s requires a local model path", ErrConfiguration, c.Backend)
		}
		if hasPath && c.Backend == BackendHosted {
			return fmt.Errorf("%w: hosted backend requires an API key", ErrConfiguration)
		}
	}

	if c.HostedProvider != "" && (!c.HostedProvider.IsValid() || !c.HostedProvider.RequiresAPIKey()) {
		return fmt.Errorf("%w: unsupported hosted provider %q", ErrConfiguration, c.HostedProvider)
	}

	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: temperature %.2f out of range [0, 2]", ErrConfiguration, c.Temperature)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrConfiguration)
	}

	return nil
}

// ResolvedBackend returns the backend this configuration runs on.
func (c LLMConfig) ResolvedBackend() Backend {
	if strings.TrimSpace(c.RemoteAPIKey) != "" {
		return BackendHosted
	}
	if c.Backend != BackendUnspecified {
		return c.Backend
	}
	return InferBackendFromFilename(c.LocalModelPath)
}

// ResolvedProvider returns the hosted provider, defaulting to OpenAI.
func (c LLMConfig) ResolvedProvider() AIProvider {
	if c.HostedProvider == "" {
		return AIProviderOpenAI
	}
	return c.HostedProvider
}

// ResolvedTimeout returns the per-call timeout.
func (c LLMConfig) ResolvedTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultLLMTimeout
	}
	return c.Timeout
}

// WithTemperature returns a copy that requests temperature t.
func (c LLMConfig) WithTemperature(t float64) LLMConfig {
	c.Temperature = t
	c.TemperatureSet = true
	return c
}

// WithDefaultTemperature returns a copy using t unless the request already
// chose a temperature.
func (c LLMConfig) WithDefaultTemperature(t float64) LLMConfig {
	if c.TemperatureSet {
		return c
	}
	c.Temperature = t
	return c
}
