package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the interaction log",
	Long:  `List recorded questions and answers, or export them as Markdown.`,
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent interactions",
	RunE:  runHistoryList,
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the log as a Markdown transcript",
	Long: `Write the interaction log as a Markdown transcript to stdout or a file.

Use --tag to restrict the transcript to one source.`,
	RunE: runHistoryExport,
}

func init() {
	for _, c := range []*cobra.Command{historyCmd, historyListCmd} {
		c.Flags().IntP("limit", "n", 10, "number of interactions (0 = all)")
	}
	historyExportCmd.Flags().String("tag", "", "only export interactions with this context")
	historyExportCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if interactionService == nil {
		return errors.New("interaction service not configured")
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("getting limit flag: %w", err)
	}

	records, err := interactionService.Recent(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No interactions recorded.")
		return nil
	}

	for _, rec := range records {
		tag := rec.ContextOrEmpty()
		if tag == "" {
			tag = "-"
		}
		cmd.Printf("%s  [%s]\n", rec.Timestamp.Local().Format(time.DateTime), tag)
		cmd.Printf("  Q: %s\n", truncate(rec.Question, 100))
		cmd.Printf("  A: %s\n\n", truncate(rec.Answer, 200))
	}
	return nil
}

func runHistoryExport(cmd *cobra.Command, _ []string) error {
	if interactionService == nil {
		return errors.New("interaction service not configured")
	}

	tag, err := cmd.Flags().GetString("tag")
	if err != nil {
		return fmt.Errorf("getting tag flag: %w", err)
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("getting output flag: %w", err)
	}

	if output == "" {
		return interactionService.Export(cmd.Context(), cmd.OutOrStdout(), tag)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	if err := interactionService.Export(cmd.Context(), f, tag); err != nil {
		_ = f.Close()
		return fmt.Errorf("export failed: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", output, err)
	}
	cmd.Printf("Transcript written to %s\n", output)
	return nil
}
