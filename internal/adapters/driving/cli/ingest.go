package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file or pattern]...",
	Short: "Index papers for question answering",
	Long: `Read PDF or text files, split them into chunks and embed them into the
local index for each file. Re-ingesting a file appends to its index.

Arguments may be glob patterns, including ** for recursive matches:
  argonaut ingest 'papers/**/*.pdf'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	paths, err := expandPaths(args)
	if err != nil {
		return err
	}

	for _, path := range paths {
		ing, err := ingestService.IngestFile(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("ingest %s failed: %w", path, err)
		}
		cmd.Printf("Indexed %d chunks from %s\n", len(ing.Chunks), ing.Document.Source)
		cmd.Printf("Index: %s (%d chunks, %s, %d dimensions)\n",
			ing.Index.Name, ing.Index.Chunks, ing.Index.Model, ing.Index.Dimensions)
	}
	return nil
}

// expandPaths resolves glob arguments in order, dropping duplicates.
// Plain paths pass through so a missing file reports from the ingest service.
func expandPaths(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, arg := range args {
		matches := []string{arg}
		if strings.ContainsAny(arg, "*?[{") {
			var err error
			matches, err = doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("%w: pattern %q: %w", domain.ErrInvalidInput, arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("%w: no files match %q", domain.ErrFileNotFound, arg)
			}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}
