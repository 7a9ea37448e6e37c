package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, retrieval tuning and artifact paths.

Use subcommands to change individual settings or configure providers
interactively.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by its dotted key, for example:
  argonaut settings set retrieval.top_k 6
  argonaut settings set concepts.threshold 0.4

Run 'argonaut settings keys' to list the keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	RunE:  runSettingsKeys,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used for indexing and concept graphs.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM source",
	Long: `Configure the language model used for answers, hypotheses and critiques.

Choose a hosted provider authenticated with an API key, or point at a
local model file.`,
	RunE: runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	// Embedding settings
	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	if settings.Embedding.Provider == domain.AIProviderOllama {
		cmd.Printf("  Base URL: %s\n", settings.Embedding.BaseURL)
	}
	if settings.Embedding.Provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", displayKey(settings.Embedding.APIKey))
	}
	cmd.Printf("  Status: %s\n", configuredStatus(settings.Embedding.IsConfigured()))
	cmd.Println()

	// LLM settings
	cmd.Println("[LLM]")
	if settings.LLM.LocalModelPath != "" && settings.LLM.APIKey == "" {
		cmd.Printf("  Local model: %s\n", settings.LLM.LocalModelPath)
		backend := settings.LLM.Config().ResolvedBackend()
		cmd.Printf("  Backend: %s\n", backend.Description())
	} else {
		cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
		cmd.Printf("  Model: %s\n", settings.LLM.Model)
		cmd.Printf("  API Key: %s\n", displayKey(settings.LLM.APIKey))
	}
	cmd.Printf("  Temperature: %.2f\n", settings.LLM.Temperature)
	cmd.Printf("  Timeout: %ds\n", settings.LLM.TimeoutSeconds)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  Context chars: %d\n", settings.Retrieval.ContextChars)
	cmd.Println()

	cmd.Println("[Concepts]")
	cmd.Printf("  Top K: %d\n", settings.Concepts.TopK)
	cmd.Printf("  Threshold: %.2f\n", settings.Concepts.Threshold)
	cmd.Println()

	cmd.Println("[Hypotheses]")
	cmd.Printf("  Count: %d\n", settings.Hypotheses.Count)
	cmd.Printf("  Temperature: %.2f\n", settings.Hypotheses.Temperature)
	cmd.Println()

	cmd.Println("[Paths]")
	cmd.Printf("  Index: %s\n", settings.Paths.IndexDir)
	cmd.Printf("  Log: %s\n", settings.Paths.LogFile)
	cmd.Printf("  Concept maps: %s\n", settings.Paths.ConceptMapDir)
	cmd.Printf("  Prompts: %s\n", settings.Paths.PromptDir)
	cmd.Println()

	if !settings.LLM.IsConfigured() {
		cmd.Println("Run 'argonaut settings llm' to configure a language model.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if settingsService.IsSecret(key) {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", strings.ToLower(strings.TrimSpace(key)), value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureEmbeddingProvider(cmd, reader)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMSource(cmd, reader)
}

func configureEmbeddingProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultEmbeddingModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd, reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(cmd.Context()); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

func configureLLMSource(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Source")
	providers := domain.AllHostedProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	local := len(providers) + 1
	cmd.Printf("  %d. Local model file\n", local)
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), local, 1)

	if idx == local {
		return configureLocalModel(cmd, reader)
	}
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	cmd.Print("Enter API key: ")
	apiKey := readPassword(cmd, reader)
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required for this provider")
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}
	if err := validateLLM(cmd); err != nil {
		return err
	}

	cmd.Printf("LLM provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

func configureLocalModel(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Print("Enter model file path: ")
	path := readLine(reader)
	if path == "" {
		return errors.New("model path is required")
	}

	inferred := domain.InferBackendFromFilename(path)
	cmd.Println("Select Backend")
	backends := []domain.Backend{domain.BackendLlama, domain.BackendGPTJ, domain.BackendAuto}
	def := 1
	for i, b := range backends {
		cmd.Printf("  %d. %s\n", i+1, b.Description())
		if b == inferred {
			def = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", def)
	backend := backends[parseChoice(readLine(reader), len(backends), def)-1]

	if err := settingsService.SetLocalModel(path, backend); err != nil {
		return fmt.Errorf("failed to configure local model: %w", err)
	}
	if err := validateLLM(cmd); err != nil {
		return err
	}

	cmd.Printf("Local model configured: %s (%s)\n", path, backend.Description())
	return nil
}

func validateLLM(cmd *cobra.Command) error {
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(cmd.Context()); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func readPassword(cmd *cobra.Command, reader *bufio.Reader) string {
	// Read without echo when attached to a terminal
	if cmd.InOrStdin() == os.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func displayKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	return maskAPIKey(key)
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
