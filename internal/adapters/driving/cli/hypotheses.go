package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/argonaut/internal/logger"
)

// hypothesesQuestion is the question recorded for hypothesis runs.
const hypothesesQuestion = "Hypotheses"

var hypothesesCmd = &cobra.Command{
	Use:   "hypotheses [file]",
	Short: "Suggest research hypotheses for a paper",
	Long: `Read a paper and ask the language model for new research directions
based on its opening section. Suggestions are recorded in the interaction log.`,
	Args: cobra.ExactArgs(1),
	RunE: runHypotheses,
}

func init() {
	hypothesesCmd.Flags().IntP("count", "n", 0, "number of suggestions (0 = configured default)")
	hypothesesCmd.Flags().Float64("temperature", 0, "sampling temperature (default from hypotheses.temperature)")
	rootCmd.AddCommand(hypothesesCmd)
}

func runHypotheses(cmd *cobra.Command, args []string) error {
	if ingestService == nil || hypothesisService == nil {
		return errors.New("hypothesis service not configured")
	}

	count, err := cmd.Flags().GetInt("count")
	if err != nil {
		return fmt.Errorf("getting count flag: %w", err)
	}

	cfg, err := llmConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("temperature") {
		temperature, err := cmd.Flags().GetFloat64("temperature")
		if err != nil {
			return fmt.Errorf("getting temperature flag: %w", err)
		}
		cfg = cfg.WithTemperature(temperature)
	}

	doc, err := ingestService.LoadText(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("load paper: %w", err)
	}

	result := hypothesisService.Generate(cmd.Context(), doc.Content, cfg, count)
	if !result.OK() {
		return result.Err()
	}

	cmd.Println(result.Text)

	if interactionService != nil {
		if err := interactionService.Record(cmd.Context(), hypothesesQuestion, result.Text, doc.Source); err != nil {
			logger.Warn("failed to record hypotheses: %v", err)
		}
	}
	return nil
}
