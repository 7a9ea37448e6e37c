package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "List embedding indexes",
	RunE:  runIndexes,
}

func init() {
	rootCmd.AddCommand(indexesCmd)
}

func runIndexes(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	handles, err := indexService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}

	if len(handles) == 0 {
		cmd.Println("No indexes. Run 'argonaut ingest <file>' to create one.")
		return nil
	}

	cmd.Printf("Indexes (%d):\n", len(handles))
	for _, h := range handles {
		cmd.Printf("  %-32s %6d chunks  %-20s %s\n",
			h.Source, h.Chunks, h.Model, h.CreatedAt.Local().Format(time.DateOnly))
	}
	return nil
}
