// Package arxiv searches the arXiv API for papers.
//
// The client queries the Atom export endpoint, ranks by relevance and
// throttles itself to the request rate arXiv asks of API clients.
package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.PaperSearcher = (*Client)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://export.arxiv.org/api/query"
	DefaultTimeout = 30 * time.Second

	// MaxResultsLimit is the largest page the API returns in one call.
	MaxResultsLimit = 2000
)

// Config holds arXiv client configuration.
type Config struct {
	// BaseURL is the query endpoint.
	BaseURL string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Interval is the minimum spacing between requests. Zero means
	// RequestInterval; a negative value disables throttling.
	Interval time.Duration
}

// Client is a literature searcher backed by the arXiv API.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *RateLimiter
}

// NewClient creates an arXiv client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Interval == 0 {
		cfg.Interval = RequestInterval
	}

	return &Client{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: NewRateLimiter(cfg.Interval),
	}
}

type feed struct {
	XMLName xml.Name `xml:"feed"`
	Entries []entry  `xml:"entry"`
}

type entry struct {
	ID        string   `xml:"id"`
	Title     string   `xml:"title"`
	Summary   string   `xml:"summary"`
	Published string   `xml:"published"`
	Authors   []author `xml:"author"`
	Links     []link   `xml:"link"`
}

type author struct {
	Name string `xml:"name"`
}

type link struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// Search returns at most maxResults papers for query ordered by relevance.
// A blank query or maxResults <= 0 yields no papers.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]domain.Paper, error) {
	query = strings.TrimSpace(query)
	if query == "" || maxResults <= 0 {
		return []domain.Paper{}, nil
	}
	if maxResults > MaxResultsLimit {
		maxResults = MaxResultsLimit
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("arxiv: wait for rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("search_query", "all:"+query)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "relevance")
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("arxiv: create request: %w", err)
	}
	req.Header.Set("Accept", "application/atom+xml")

	logger.Debug("arxiv: searching %q (max %d)", query, maxResults)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arxiv: request failed: %w", err)
	}
	defer resp.Body.Close()

	if c.limiter.Observe(resp) {
		return nil, fmt.Errorf("%w: arxiv returned status %d", domain.ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("arxiv: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var f feed
	if err := xml.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, fmt.Errorf("arxiv: decode feed: %w", err)
	}

	papers := make([]domain.Paper, 0, len(f.Entries))
	for _, e := range f.Entries {
		// The API reports query errors as a single entry with an error id.
		if strings.Contains(e.ID, "/api/errors") {
			return nil, fmt.Errorf("%w: arxiv: %s", domain.ErrInvalidInput, collapse(e.Summary))
		}
		papers = append(papers, e.paper())
		if len(papers) == maxResults {
			break
		}
	}
	logger.Debug("arxiv: %d papers", len(papers))
	return papers, nil
}

func (e entry) paper() domain.Paper {
	p := domain.Paper{
		Title:   collapse(e.Title),
		Summary: collapseLines(e.Summary),
		URL:     strings.TrimSpace(e.ID),
		Authors: make([]string, 0, len(e.Authors)),
	}
	for _, a := range e.Authors {
		if name := collapse(a.Name); name != "" {
			p.Authors = append(p.Authors, name)
		}
	}
	for _, l := range e.Links {
		if l.Title == "pdf" {
			p.PDFURL = l.Href
			break
		}
	}
	return p
}

// collapse trims s and folds internal whitespace runs into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// collapseLines collapses each line of s and drops blank lines, keeping
// the line structure that abstracts are chunked by.
func collapseLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = collapse(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
