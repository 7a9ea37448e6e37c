package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "Literature search commands",
	Long:  `Search arXiv for related work and index the abstracts.`,
}

var papersSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search arXiv for papers",
	Long: `Search arXiv and list the matching papers.

Use --ingest to index the abstracts so they can be queried with:
  argonaut ask arxiv_search "..."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPapersSearch,
}

func init() {
	papersSearchCmd.Flags().IntP("limit", "n", 0, "maximum number of papers (0 = configured default)")
	papersSearchCmd.Flags().Bool("ingest", false, "index the abstracts of the results")
	papersCmd.AddCommand(papersSearchCmd)
	rootCmd.AddCommand(papersCmd)
}

func runPapersSearch(cmd *cobra.Command, args []string) error {
	if literatureService == nil {
		return errors.New("literature service not configured")
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("getting limit flag: %w", err)
	}
	ingest, err := cmd.Flags().GetBool("ingest")
	if err != nil {
		return fmt.Errorf("getting ingest flag: %w", err)
	}

	query := strings.Join(args, " ")
	papers, err := literatureService.Search(cmd.Context(), query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(papers) == 0 {
		cmd.Println("No papers found.")
		return nil
	}

	cmd.Printf("Papers (%d):\n\n", len(papers))
	for i, p := range papers {
		cmd.Printf("%d. %s\n", i+1, p.Title)
		if authors := p.AuthorList(); authors != "" {
			cmd.Printf("   %s\n", authors)
		}
		cmd.Printf("   %s\n", p.Link())
		cmd.Printf("   %s\n\n", truncate(p.Summary, 200))
	}

	if !ingest {
		return nil
	}

	handle, err := literatureService.IngestPapers(cmd.Context(), papers)
	if err != nil {
		return fmt.Errorf("ingest papers: %w", err)
	}
	cmd.Printf("Indexed abstracts into %s (%d chunks)\n", handle.Name, handle.Chunks)
	return nil
}
