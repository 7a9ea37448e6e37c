package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/argonaut/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [source]",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for Argonaut.

The TUI lets you pick an ingested paper, ask questions about it and read
the answers next to the passages they were drawn from. Pass a source name
to start asking straight away.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Ask / Select
  n        - New question
  Esc      - Back
  q        - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// tuiPorts builds the TUI ports from the installed services.
func tuiPorts() *tui.Ports {
	return &tui.Ports{
		Index:        indexService,
		Answer:       answerService,
		Interactions: interactionService,
		Settings:     settingsService,
		LLMConfig:    llmConfig,
	}
}

func runTUI(cmd *cobra.Command, args []string) (err error) {
	// Recover so a rendering panic leaves a stack trace instead of a garbled terminal
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = errors.New("tui crashed")
		}
	}()

	app, err := tui.NewApp(tuiPorts())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())
	defer watchPrompts(cmd.Context())()

	if len(args) == 1 {
		handle, err := indexService.Open(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to open index for %s: %w", args[0], err)
		}
		app.WithIndex(handle)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
