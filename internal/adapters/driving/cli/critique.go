package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

var critiqueCmd = &cobra.Command{
	Use:   "critique [file]",
	Short: "Critique a paper from different perspectives",
	Long: `Ask persona agents for a critical analysis of a paper's opening section.

Personas are researcher, reviewer and explainer. Without --persona every
persona runs in turn.`,
	Args: cobra.ExactArgs(1),
	RunE: runCritique,
}

func init() {
	critiqueCmd.Flags().StringP("persona", "p", "", "persona to run (default all)")
	rootCmd.AddCommand(critiqueCmd)
}

func runCritique(cmd *cobra.Command, args []string) error {
	if ingestService == nil || critiqueService == nil {
		return errors.New("critique service not configured")
	}

	name, err := cmd.Flags().GetString("persona")
	if err != nil {
		return fmt.Errorf("getting persona flag: %w", err)
	}

	cfg, err := llmConfig()
	if err != nil {
		return err
	}

	doc, err := ingestService.LoadText(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("load paper: %w", err)
	}

	if name != "" {
		persona, err := domain.ParsePersona(name)
		if err != nil {
			return err
		}
		text, err := critiqueService.Critique(cmd.Context(), persona, doc.Content, cfg)
		if err != nil {
			return fmt.Errorf("critique failed: %w", err)
		}
		cmd.Println(text)
		return nil
	}

	critiques, err := critiqueService.CritiqueAll(cmd.Context(), doc.Content, cfg)
	for _, c := range critiques {
		cmd.Printf("## %s\n\n%s\n\n", c.Persona.Title(), c.Text)
	}
	if err != nil {
		return fmt.Errorf("critique failed: %w", err)
	}
	return nil
}
