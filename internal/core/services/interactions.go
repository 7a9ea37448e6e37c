package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
)

// Ensure InteractionService implements the interface.
var _ driving.InteractionService = (*InteractionService)(nil)

// InteractionService records questions and answers in the interaction log.
type InteractionService struct {
	log driven.InteractionLog
}

// NewInteractionService creates an interaction service over log.
func NewInteractionService(log driven.InteractionLog) *InteractionService {
	return &InteractionService{log: log}
}

// Record appends a question/answer pair tagged with tag.
func (s *InteractionService) Record(ctx context.Context, question, answer, tag string) error {
	if err := s.log.Append(ctx, domain.NewInteractionRecord(question, answer, tag)); err != nil {
		return fmt.Errorf("record interaction: %w", err)
	}
	return nil
}

// List returns every record, oldest first.
func (s *InteractionService) List(ctx context.Context) ([]domain.InteractionRecord, error) {
	return s.log.List(ctx)
}

// Recent returns the last n records, newest first. n <= 0 returns all of them.
func (s *InteractionService) Recent(ctx context.Context, n int) ([]domain.InteractionRecord, error) {
	recs, err := s.log.List(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 || n > len(recs) {
		n = len(recs)
	}
	out := make([]domain.InteractionRecord, 0, n)
	for i := len(recs) - 1; i >= len(recs)-n; i-- {
		out = append(out, recs[i])
	}
	return out, nil
}

// Export writes the log, oldest first, as a Markdown transcript.
func (s *InteractionService) Export(ctx context.Context, w io.Writer, tag string) error {
	recs, err := s.log.List(ctx)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	title := "Argonaut session"
	if tag != "" {
		title += ": " + tag
	}
	fmt.Fprintf(bw, "# %s\n", title)

	written := 0
	for _, rec := range recs {
		if tag != "" && rec.ContextOrEmpty() != tag {
			continue
		}
		written++
		fmt.Fprintf(bw, "\n## %s\n\n", rec.Timestamp.UTC().Format(time.RFC3339))
		fmt.Fprintf(bw, "**Q:** %s\n\n", strings.TrimSpace(rec.Question))
		fmt.Fprintf(bw, "**A:** %s\n", strings.TrimSpace(rec.Answer))
		if c := rec.ContextOrEmpty(); c != "" {
			fmt.Fprintf(bw, "\n_Context: %s_\n", c)
		}
	}
	if written == 0 {
		fmt.Fprint(bw, "\n_No interactions recorded._\n")
	}
	return bw.Flush()
}
