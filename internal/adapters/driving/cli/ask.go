package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [source] [question]",
	Short: "Ask a question about an ingested paper",
	Long: `Retrieve the chunks of an ingested paper most relevant to the question
and generate an answer grounded in them.

The source is the file name the paper was ingested under, for example:
  argonaut ask paper.pdf "What method is proposed?"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolP("sources", "s", false, "show the retrieved chunks")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if indexService == nil || answerService == nil {
		return errors.New("answer service not configured")
	}

	showSources, err := cmd.Flags().GetBool("sources")
	if err != nil {
		return fmt.Errorf("getting sources flag: %w", err)
	}

	cfg, err := llmConfig()
	if err != nil {
		return err
	}

	handle, err := indexService.Open(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}

	question := strings.Join(args[1:], " ")
	answer, err := answerService.AnswerWithSources(cmd.Context(), handle, question, cfg)
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}

	cmd.Println(answer.Text)

	if showSources {
		cmd.Println()
		cmd.Printf("Sources (%d):\n", len(answer.Sources))
		for i, hit := range answer.Sources {
			cmd.Printf("  %d. [%.3f] %s\n", i+1, hit.Score, truncate(hit.Chunk.Content, 100))
		}
	}
	return nil
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
