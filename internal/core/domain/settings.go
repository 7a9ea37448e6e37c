package domain

import (
	"path/filepath"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderHashing is the offline feature-hashing embedder.
	AIProviderHashing AIProvider = "hashing"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderHashing:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama || p == AIProviderHashing
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderHashing:
		return "Feature hashing (offline)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the hosted LLM provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the backend endpoint.
	BaseURL string

	// APIKey is the API key for the hosted provider.
	APIKey string

	// LocalModelPath is an on-disk model file used when no API key is set.
	LocalModelPath string

	// Backend optionally pins the local backend family.
	Backend Backend

	// Temperature is the default sampling temperature for answers.
	Temperature float64

	// TimeoutSeconds bounds each backend call.
	TimeoutSeconds int
}

// IsConfigured returns true if the LLM has a usable source.
func (l LLMSettings) IsConfigured() bool {
	return l.Config().Validate() == nil
}

// Config converts the settings into a per-request LLMConfig.
// An API key takes precedence over a local model path.
func (l LLMSettings) Config() LLMConfig {
	cfg := LLMConfig{
		RemoteAPIKey:   l.APIKey,
		Backend:        l.Backend,
		HostedProvider: l.Provider,
		Model:          l.Model,
		BaseURL:        l.BaseURL,
		Temperature:    l.Temperature,
		Timeout:        time.Duration(l.TimeoutSeconds) * time.Second,
	}
	if l.APIKey == "" {
		cfg.LocalModelPath = l.LocalModelPath
		cfg.HostedProvider = ""
		cfg.Model = ""
		if cfg.Backend == BackendHosted {
			cfg.Backend = BackendUnspecified
		}
	} else if cfg.Backend != BackendHosted {
		cfg.Backend = BackendUnspecified
	}
	return cfg
}

// RetrievalSettings tunes the retrieval-augmented answerer.
type RetrievalSettings struct {
	// TopK is the number of chunks retrieved per question.
	TopK int

	// ContextChars bounds the context window handed to the model, in runes.
	ContextChars int
}

// ConceptSettings tunes keyphrase extraction and the concept graph.
type ConceptSettings struct {
	// TopK is the number of keyphrases extracted.
	TopK int

	// Threshold is the cosine similarity an edge must exceed.
	Threshold float64
}

// HypothesisSettings tunes hypothesis generation.
type HypothesisSettings struct {
	// Count is the number of suggestions requested.
	Count int

	// Temperature is the sampling temperature.
	Temperature float64

	// PrefixChars bounds the text excerpt sent to the model, in runes.
	PrefixChars int
}

// PaperSettings tunes literature search.
type PaperSettings struct {
	// MaxResults bounds the number of papers fetched.
	MaxResults int
}

// PathSettings locates the persisted artifacts.
type PathSettings struct {
	// IndexDir holds the embedding index store.
	IndexDir string

	// LogFile is the interaction log.
	LogFile string

	// ConceptMapDir receives rendered concept maps.
	ConceptMapDir string

	// PromptDir holds optional prompt template overrides.
	PromptDir string
}

// DefaultPathSettings returns the artifact locations under home.
func DefaultPathSettings(home string) PathSettings {
	return PathSettings{
		IndexDir:      filepath.Join(home, "vector_db"),
		LogFile:       filepath.Join(home, "memory.json"),
		ConceptMapDir: filepath.Join(home, "concept_maps"),
		PromptDir:     filepath.Join(home, "prompts"),
	}
}

// Default tuning values.
const (
	DefaultRetrievalTopK       = 4
	DefaultContextChars        = 6000
	DefaultAnswerTemperature   = 0.3
	DefaultHypothesisCount     = 3
	DefaultHypothesisTemp      = 0.7
	DefaultHypothesisPrefix    = 3000
	DefaultCritiqueTemperature = 0.7
	DefaultCritiqueExcerpt     = 3000
	DefaultPaperResults        = 3
	DefaultLLMTimeoutSeconds   = 120
	DefaultEmbeddingModel      = "all-minilm"
)

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds language model settings.
	LLM LLMSettings

	// Retrieval holds answerer settings.
	Retrieval RetrievalSettings

	// Concepts holds concept extraction settings.
	Concepts ConceptSettings

	// Hypotheses holds hypothesis generation settings.
	Hypotheses HypothesisSettings

	// Papers holds literature search settings.
	Papers PaperSettings

	// Paths holds artifact locations.
	Paths PathSettings

	// Pipeline holds the chunking pipeline.
	Pipeline PipelineConfig
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM is left without a source; users supply an API key or a
// local model path.
func DefaultAppSettings(home string) AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderOllama,
			Model:    DefaultEmbeddingModel,
		},
		LLM: LLMSettings{
			Provider:       AIProviderOpenAI,
			Model:          DefaultLLMModels()[AIProviderOpenAI],
			Temperature:    DefaultAnswerTemperature,
			TimeoutSeconds: DefaultLLMTimeoutSeconds,
		},
		Retrieval: RetrievalSettings{
			TopK:         DefaultRetrievalTopK,
			ContextChars: DefaultContextChars,
		},
		Concepts: ConceptSettings{
			TopK:      DefaultKeyphraseTopK,
			Threshold: DefaultSimilarityThreshold,
		},
		Hypotheses: HypothesisSettings{
			Count:       DefaultHypothesisCount,
			Temperature: DefaultHypothesisTemp,
			PrefixChars: DefaultHypothesisPrefix,
		},
		Papers: PaperSettings{
			MaxResults: DefaultPaperResults,
		},
		Paths:    DefaultPathSettings(home),
		Pipeline: DefaultPipelineConfig(),
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderHashing,
	}
}

// AllHostedProviders returns providers reachable with an API key.
func AllHostedProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:  DefaultEmbeddingModel,
		AIProviderOpenAI:  "text-embedding-3-small",
		AIProviderHashing: "hashing-384",
	}
}

// DefaultLLMModels returns default models for each hosted provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI:    "gpt-3.5-turbo",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"all-minilm":        384,
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Offline models
		"hashing-384": 384,
	}
}

// PipelineConfig holds chunking pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default pipeline configuration.
// Lines become chunks, blank lines are dropped, and very long lines are
// windowed.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"lines", "compact", "window"},
		ProcessorConfigs: map[string]map[string]any{
			"window": {
				"chunk_size": 2000,
				"overlap":    200,
			},
		},
	}
}
