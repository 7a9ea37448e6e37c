package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

var conceptsCmd = &cobra.Command{
	Use:   "concepts [file]",
	Short: "Map the key concepts of a paper",
	Long: `Extract the most salient keyphrases of a paper and connect phrases whose
embeddings are similar. The graph is written as an interactive HTML page.

Use --json to print the graph instead of rendering it.`,
	Args: cobra.ExactArgs(1),
	RunE: runConcepts,
}

func init() {
	conceptsCmd.Flags().IntP("top-k", "k", 0, "number of keyphrases (0 = configured default)")
	conceptsCmd.Flags().Float64P("threshold", "t", domain.DefaultSimilarityThreshold, "edge similarity threshold")
	conceptsCmd.Flags().Bool("json", false, "print the graph as JSON")
	rootCmd.AddCommand(conceptsCmd)
}

func runConcepts(cmd *cobra.Command, args []string) error {
	if ingestService == nil || conceptService == nil {
		return errors.New("concept service not configured")
	}

	topK, err := cmd.Flags().GetInt("top-k")
	if err != nil {
		return fmt.Errorf("getting top-k flag: %w", err)
	}
	threshold, err := cmd.Flags().GetFloat64("threshold")
	if err != nil {
		return fmt.Errorf("getting threshold flag: %w", err)
	}
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("getting json flag: %w", err)
	}
	if !cmd.Flags().Changed("threshold") && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			threshold = settings.Concepts.Threshold
		}
	}

	doc, err := ingestService.LoadText(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("load paper: %w", err)
	}

	keyphrases, err := conceptService.Extract(cmd.Context(), doc.Content, topK)
	if err != nil {
		return fmt.Errorf("extract keyphrases: %w", err)
	}
	graph, err := conceptService.BuildGraph(cmd.Context(), keyphrases, threshold)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(graph)
	}

	cmd.Printf("Keyphrases (%d):\n", len(keyphrases))
	for i, kp := range keyphrases {
		cmd.Printf("  %2d. %-40s %.3f\n", i+1, kp.Phrase, kp.Score)
	}
	cmd.Printf("\n%d edges above similarity %.2f\n", len(graph.Edges), graph.Threshold)

	path, err := conceptService.Render(cmd.Context(), graph)
	if err != nil {
		return fmt.Errorf("render graph: %w", err)
	}
	cmd.Printf("Concept map written to %s\n", path)
	return nil
}
