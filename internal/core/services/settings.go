package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyLLMLocalModel     = "llm.local_model_path"
	keyLLMBackend        = "llm.backend"
	keyLLMTemperature    = "llm.temperature"
	keyLLMTimeout        = "llm.timeout_seconds"
	keyRetrievalTopK     = "retrieval.top_k"
	keyRetrievalContext  = "retrieval.context_chars"
	keyConceptsTopK      = "concepts.top_k"
	keyConceptsThreshold = "concepts.threshold"
	keyHypothesesCount   = "hypotheses.count"
	keyHypothesesTemp    = "hypotheses.temperature"
	keyHypothesesPrefix  = "hypotheses.prefix_chars"
	keyPapersMax         = "papers.max_results"
	keyPathIndexDir      = "paths.index_dir"
	keyPathLogFile       = "paths.log_file"
	keyPathConceptMaps   = "paths.concept_map_dir"
	keyPathPrompts       = "paths.prompt_dir"
	keyPipelineProcs     = "pipeline.processors"
)

// defaultOllamaURL is used for local providers without a configured endpoint.
const defaultOllamaURL = "http://localhost:11434"

// settingKind is the value type of a settable key.
type settingKind int

const (
	kindString settingKind = iota
	kindSecret
	kindInt
	kindFloat
	kindProvider
	kindBackend
)

// settableKeys lists every key accepted by Set, in display order.
var settableKeys = []struct {
	key  string
	kind settingKind
}{
	{keyEmbedProvider, kindProvider},
	{keyEmbedModel, kindString},
	{keyEmbedBaseURL, kindString},
	{keyEmbedAPIKey, kindSecret},
	{keyLLMProvider, kindProvider},
	{keyLLMModel, kindString},
	{keyLLMBaseURL, kindString},
	{keyLLMAPIKey, kindSecret},
	{keyLLMLocalModel, kindString},
	{keyLLMBackend, kindBackend},
	{keyLLMTemperature, kindFloat},
	{keyLLMTimeout, kindInt},
	{keyRetrievalTopK, kindInt},
	{keyRetrievalContext, kindInt},
	{keyConceptsTopK, kindInt},
	{keyConceptsThreshold, kindFloat},
	{keyHypothesesCount, kindInt},
	{keyHypothesesTemp, kindFloat},
	{keyHypothesesPrefix, kindInt},
	{keyPapersMax, kindInt},
	{keyPathIndexDir, kindString},
	{keyPathLogFile, kindString},
	{keyPathConceptMaps, kindString},
	{keyPathPrompts, kindString},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	home        string
}

// NewSettingsService creates a new settings service. home anchors the
// default artifact paths.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator, home string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		home:        home,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := s.GetDefaults()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider:       s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:          s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:        s.configStore.GetString(keyLLMBaseURL),
			APIKey:         s.configStore.GetString(keyLLMAPIKey),
			LocalModelPath: s.configStore.GetString(keyLLMLocalModel),
			Backend:        s.getBackend(),
			Temperature:    s.getFloat(keyLLMTemperature, defaults.LLM.Temperature),
			TimeoutSeconds: s.getInt(keyLLMTimeout, defaults.LLM.TimeoutSeconds),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:         s.getInt(keyRetrievalTopK, defaults.Retrieval.TopK),
			ContextChars: s.getInt(keyRetrievalContext, defaults.Retrieval.ContextChars),
		},
		Concepts: domain.ConceptSettings{
			TopK:      s.getInt(keyConceptsTopK, defaults.Concepts.TopK),
			Threshold: s.getFloat(keyConceptsThreshold, defaults.Concepts.Threshold),
		},
		Hypotheses: domain.HypothesisSettings{
			Count:       s.getInt(keyHypothesesCount, defaults.Hypotheses.Count),
			Temperature: s.getFloat(keyHypothesesTemp, defaults.Hypotheses.Temperature),
			PrefixChars: s.getInt(keyHypothesesPrefix, defaults.Hypotheses.PrefixChars),
		},
		Papers: domain.PaperSettings{
			MaxResults: s.getInt(keyPapersMax, defaults.Papers.MaxResults),
		},
		Paths: domain.PathSettings{
			IndexDir:      s.getString(keyPathIndexDir, defaults.Paths.IndexDir),
			LogFile:       s.getString(keyPathLogFile, defaults.Paths.LogFile),
			ConceptMapDir: s.getString(keyPathConceptMaps, defaults.Paths.ConceptMapDir),
			PromptDir:     s.getString(keyPathPrompts, defaults.Paths.PromptDir),
		},
		Pipeline: defaults.Pipeline,
	}

	if procs := s.configStore.GetStringSlice(keyPipelineProcs); len(procs) > 0 {
		settings.Pipeline.Processors = procs
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMLocalModel, settings.LLM.LocalModelPath},
		{keyLLMBackend, settings.LLM.Backend.String()},
		{keyLLMTemperature, settings.LLM.Temperature},
		{keyLLMTimeout, settings.LLM.TimeoutSeconds},
		{keyRetrievalTopK, settings.Retrieval.TopK},
		{keyRetrievalContext, settings.Retrieval.ContextChars},
		{keyConceptsTopK, settings.Concepts.TopK},
		{keyConceptsThreshold, settings.Concepts.Threshold},
		{keyHypothesesCount, settings.Hypotheses.Count},
		{keyHypothesesTemp, settings.Hypotheses.Temperature},
		{keyHypothesesPrefix, settings.Hypotheses.PrefixChars},
		{keyPapersMax, settings.Papers.MaxResults},
		{keyPathIndexDir, settings.Paths.IndexDir},
		{keyPathLogFile, settings.Paths.LogFile},
		{keyPathConceptMaps, settings.Paths.ConceptMapDir},
		{keyPathPrompts, settings.Paths.PromptDir},
		{keyPipelineProcs, settings.Pipeline.Processors},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// API keys are only written when set.
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// Set stores one setting by key after validating value.
func (s *SettingsService) Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)

	kind, ok := lookupKind(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	var stored any
	switch kind {
	case kindString, kindSecret:
		stored = value
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		if err := validateFloat(key, f); err != nil {
			return err
		}
		stored = f
	case kindProvider:
		p := domain.AIProvider(strings.ToLower(value))
		if !p.IsValid() {
			return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, value)
		}
		stored = p.String()
	case kindBackend:
		b, err := domain.ParseBackend(value)
		if err != nil {
			return err
		}
		stored = b.String()
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the settable keys in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settableKeys))
	for i, k := range settableKeys {
		keys[i] = k.key
	}
	return keys
}

// Values returns the effective value of every settable key, defaults included.
func (s *SettingsService) Values() (map[string]string, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	ftoa := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	return map[string]string{
		keyEmbedProvider:     settings.Embedding.Provider.String(),
		keyEmbedModel:        settings.Embedding.Model,
		keyEmbedBaseURL:      settings.Embedding.BaseURL,
		keyEmbedAPIKey:       settings.Embedding.APIKey,
		keyLLMProvider:       settings.LLM.Provider.String(),
		keyLLMModel:          settings.LLM.Model,
		keyLLMBaseURL:        settings.LLM.BaseURL,
		keyLLMAPIKey:         settings.LLM.APIKey,
		keyLLMLocalModel:     settings.LLM.LocalModelPath,
		keyLLMBackend:        settings.LLM.Backend.String(),
		keyLLMTemperature:    ftoa(settings.LLM.Temperature),
		keyLLMTimeout:        strconv.Itoa(settings.LLM.TimeoutSeconds),
		keyRetrievalTopK:     strconv.Itoa(settings.Retrieval.TopK),
		keyRetrievalContext:  strconv.Itoa(settings.Retrieval.ContextChars),
		keyConceptsTopK:      strconv.Itoa(settings.Concepts.TopK),
		keyConceptsThreshold: ftoa(settings.Concepts.Threshold),
		keyHypothesesCount:   strconv.Itoa(settings.Hypotheses.Count),
		keyHypothesesTemp:    ftoa(settings.Hypotheses.Temperature),
		keyHypothesesPrefix:  strconv.Itoa(settings.Hypotheses.PrefixChars),
		keyPapersMax:         strconv.Itoa(settings.Papers.MaxResults),
		keyPathIndexDir:      settings.Paths.IndexDir,
		keyPathLogFile:       settings.Paths.LogFile,
		keyPathConceptMaps:   settings.Paths.ConceptMapDir,
		keyPathPrompts:       settings.Paths.PromptDir,
	}, nil
}

// IsSecret reports whether key holds a credential that should not be echoed.
func (s *SettingsService) IsSecret(key string) bool {
	kind, ok := lookupKind(key)
	return ok && kind == kindSecret
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate provider supports embeddings
	valid := false
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	switch {
	case provider == domain.AIProviderOllama:
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = defaultOllamaURL
		}
	default:
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the hosted LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() || !provider.RequiresAPIKey() {
		return fmt.Errorf("invalid hosted LLM provider: %s", provider)
	}
	if apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}
	settings.LLM.BaseURL = ""
	settings.LLM.APIKey = apiKey
	if settings.LLM.Backend.IsLocal() {
		settings.LLM.Backend = domain.BackendUnspecified
	}

	return s.Save(settings)
}

// SetLocalModel configures an on-disk model file. BackendUnspecified
// leaves the family to filename inference.
func (s *SettingsService) SetLocalModel(path string, backend domain.Backend) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: model path is empty", domain.ErrInvalidInput)
	}
	if backend != domain.BackendUnspecified && !backend.IsLocal() {
		return fmt.Errorf("%w: backend %s does not run local models", domain.ErrConfiguration, backend)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.LLM.LocalModelPath = path
	settings.LLM.Backend = backend
	if err := s.Save(settings); err != nil {
		return err
	}

	// A stored API key would take precedence over the local model.
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, ""); err != nil {
			return fmt.Errorf("clear llm api_key: %w", err)
		}
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings(s.home)
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(ctx, &settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(ctx, settings.LLM.Config())
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend() domain.Backend {
	b, err := domain.ParseBackend(s.configStore.GetString(keyLLMBackend))
	if err != nil {
		return domain.BackendUnspecified
	}
	return b
}

func lookupKind(key string) (settingKind, bool) {
	for _, k := range settableKeys {
		if k.key == key {
			return k.kind, true
		}
	}
	return 0, false
}

func validateFloat(key string, f float64) error {
	switch key {
	case keyConceptsThreshold:
		if f < -1 || f >= 1 {
			return fmt.Errorf("%w: %s must be in [-1, 1)", domain.ErrInvalidInput, key)
		}
	case keyLLMTemperature, keyHypothesesTemp:
		if f < 0 || f > 2 {
			return fmt.Errorf("%w: %s must be in [0, 2]", domain.ErrInvalidInput, key)
		}
	}
	return nil
}
