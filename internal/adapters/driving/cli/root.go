// Package cli provides the argonaut command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	Verbose   bool
	ConfigDir string
	OpenAIKey string
	ModelPath string
	Backend   string
}

// Services holds the driving ports the commands call.
type Services struct {
	Index        driving.IndexService
	Ingest       driving.IngestService
	Answer       driving.AnswerService
	Hypotheses   driving.HypothesisService
	Critique     driving.CritiqueService
	Concepts     driving.ConceptService
	Interactions driving.InteractionService
	Literature   driving.LiteratureService
	Settings     driving.SettingsService

	// WatchPrompts, if set, reloads prompt templates as they change until
	// its context is cancelled. Long-running commands start it.
	WatchPrompts func(ctx context.Context) error
}

// Initializer builds the services once the global flags are parsed.
// The returned closer runs after the command finishes.
type Initializer func(ctx context.Context, opts GlobalOptions) (*Services, func() error, error)

var (
	globalOpts  GlobalOptions
	initializer Initializer
	closer      func() error

	indexService       driving.IndexService
	ingestService      driving.IngestService
	answerService      driving.AnswerService
	hypothesisService  driving.HypothesisService
	critiqueService    driving.CritiqueService
	conceptService     driving.ConceptService
	interactionService driving.InteractionService
	literatureService  driving.LiteratureService
	settingsService    driving.SettingsService
	promptWatcher      func(ctx context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "argonaut",
	Short: "Research paper assistant",
	Long: `Argonaut reads research papers and helps you work with them.

Ingest a PDF or text file to build a local embedding index, then ask
questions grounded in it, brainstorm hypotheses, request persona critiques,
map its key concepts, or search arXiv for related work.

Every answer is appended to a local interaction log that can be exported
as a Markdown transcript.`,
	SilenceUsage:       true,
	PersistentPreRunE:  initServices,
	PersistentPostRunE: closeServices,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "enable debug output")
	flags.StringVar(&globalOpts.ConfigDir, "config-dir", "", "configuration directory (default ~/.argonaut)")
	flags.StringVar(&globalOpts.OpenAIKey, "openai-key", "", "OpenAI API key for this run")
	flags.StringVar(&globalOpts.ModelPath, "model-path", "", "local model file for this run")
	flags.StringVar(&globalOpts.Backend, "backend", "", "local backend family: llama, gptj or auto")
}

// SetServices installs the driving ports used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	indexService = s.Index
	ingestService = s.Ingest
	answerService = s.Answer
	hypothesisService = s.Hypotheses
	critiqueService = s.Critique
	conceptService = s.Concepts
	interactionService = s.Interactions
	literatureService = s.Literature
	settingsService = s.Settings
	promptWatcher = s.WatchPrompts
}

// watchPrompts runs the prompt watcher in the background and returns a
// function that stops it and waits for it to exit.
func watchPrompts(ctx context.Context) (stop func()) {
	if promptWatcher == nil {
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func(watch func(context.Context) error) {
		defer close(done)
		if err := watch(ctx); err != nil {
			logger.Warn("prompt reload disabled: %v", err)
		}
	}(promptWatcher)
	return func() {
		cancel()
		<-done
	}
}

// SetInitializer registers the function that wires services before a command runs.
func SetInitializer(fn Initializer) {
	initializer = fn
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(globalOpts.Verbose)
	if initializer == nil || cmd.Name() == versionCmd.Name() {
		return nil
	}

	services, closeFn, err := initializer(cmd.Context(), globalOpts)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(services)
	closer = closeFn
	return nil
}

func closeServices(_ *cobra.Command, _ []string) error {
	if closer == nil {
		return nil
	}
	err := closer()
	closer = nil
	return err
}

// llmConfig resolves the per-request LLM configuration from settings,
// the environment and the global flags. Flags win over settings.
func llmConfig() (domain.LLMConfig, error) {
	llm := domain.DefaultAppSettings("").LLM
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return domain.LLMConfig{}, fmt.Errorf("failed to get settings: %w", err)
		}
		llm = settings.LLM
	}

	if llm.APIKey == "" && llm.LocalModelPath == "" {
		llm.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if globalOpts.OpenAIKey != "" {
		if llm.Provider != domain.AIProviderOpenAI {
			llm.Provider = domain.AIProviderOpenAI
			llm.Model = domain.DefaultLLMModels()[domain.AIProviderOpenAI]
		}
		llm.APIKey = globalOpts.OpenAIKey
		llm.Backend = domain.BackendUnspecified
	}
	if globalOpts.ModelPath != "" {
		llm.LocalModelPath = globalOpts.ModelPath
		if globalOpts.OpenAIKey == "" {
			llm.APIKey = ""
		}
	}
	if globalOpts.Backend != "" {
		backend, err := domain.ParseBackend(globalOpts.Backend)
		if err != nil {
			return domain.LLMConfig{}, err
		}
		llm.Backend = backend
	}

	cfg := llm.Config()
	// Both flags at once is a conflict the services report.
	if globalOpts.OpenAIKey != "" && globalOpts.ModelPath != "" {
		cfg.LocalModelPath = globalOpts.ModelPath
	}
	return cfg, nil
}
