package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Source   string `json:"source" jsonschema:"the source name the paper was ingested under"`
	Question string `json:"question" jsonschema:"the question to answer from the paper"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string      `json:"answer"`
	Sources []HitOutput `json:"sources"`
}

// SearchIndexInput is the input schema for the search_index tool.
type SearchIndexInput struct {
	Source string `json:"source" jsonschema:"the source name the paper was ingested under"`
	Query  string `json:"query" jsonschema:"the text to find similar passages for"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of passages to return (default: configured top k)"`
}

// SearchIndexOutput is the output schema for the search_index tool.
type SearchIndexOutput struct {
	Results []HitOutput `json:"results"`
	Count   int         `json:"count"`
}

// HitOutput represents a single retrieved chunk.
type HitOutput struct {
	ChunkID string  `json:"chunk_id"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// HypothesesInput is the input schema for the hypotheses tool.
type HypothesesInput struct {
	Text  string `json:"text" jsonschema:"the paper text to base suggestions on"`
	Count int    `json:"count,omitempty" jsonschema:"number of suggestions (default 3)"`
}

// HypothesesOutput is the output schema for the hypotheses tool.
type HypothesesOutput struct {
	OK      bool   `json:"ok"`
	Text    string `json:"text,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
}

// ConceptGraphInput is the input schema for the concept_graph tool.
type ConceptGraphInput struct {
	Text      string   `json:"text" jsonschema:"the text to extract concepts from"`
	TopK      int      `json:"top_k,omitempty" jsonschema:"number of keyphrases (default 20)"`
	Threshold *float64 `json:"threshold,omitempty" jsonschema:"cosine similarity an edge must exceed (default 0.5)"`
}

// ConceptGraphOutput is the output schema for the concept_graph tool.
type ConceptGraphOutput struct {
	Keyphrases []domain.Keyphrase   `json:"keyphrases"`
	Nodes      []domain.ConceptNode `json:"nodes"`
	Edges      []domain.ConceptEdge `json:"edges"`
}

// SearchPapersInput is the input schema for the search_papers tool.
type SearchPapersInput struct {
	Query      string `json:"query" jsonschema:"the arXiv search query"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"maximum number of papers (default 3)"`
}

// SearchPapersOutput is the output schema for the search_papers tool.
type SearchPapersOutput struct {
	Papers []domain.Paper `json:"papers"`
	Count  int            `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question grounded in an ingested paper",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_index",
		Description: "Find the passages of an ingested paper most similar to a query",
	}, s.handleSearchIndex)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "hypotheses",
		Description: "Suggest research hypotheses for a piece of text",
	}, s.handleHypotheses)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "concept_graph",
		Description: "Extract keyphrases and connect semantically similar ones",
	}, s.handleConceptGraph)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_papers",
		Description: "Search arXiv for related papers",
	}, s.handleSearchPapers)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if s.ports.Answer == nil {
		return nil, AskOutput{}, fmt.Errorf("ask: %w", errToolUnavailable)
	}

	cfg, err := s.ports.llmConfig()
	if err != nil {
		return nil, AskOutput{}, err
	}

	handle, err := s.ports.Index.Open(ctx, input.Source)
	if err != nil {
		return nil, AskOutput{}, err
	}

	answer, err := s.ports.Answer.AnswerWithSources(ctx, handle, input.Question, cfg)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{Answer: answer.Text, Sources: hitOutputs(answer.Sources)}, nil
}

// handleSearchIndex handles the search_index tool invocation.
func (s *Server) handleSearchIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchIndexInput,
) (*mcp.CallToolResult, SearchIndexOutput, error) {
	handle, err := s.ports.Index.Open(ctx, input.Source)
	if err != nil {
		return nil, SearchIndexOutput{}, err
	}

	hits, err := s.ports.Index.Search(ctx, handle, input.Query, input.Limit)
	if err != nil {
		return nil, SearchIndexOutput{}, err
	}

	results := hitOutputs(hits)
	return nil, SearchIndexOutput{Results: results, Count: len(results)}, nil
}

// handleHypotheses handles the hypotheses tool invocation.
// Generation failures are reported in the output rather than as tool errors.
func (s *Server) handleHypotheses(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HypothesesInput,
) (*mcp.CallToolResult, HypothesesOutput, error) {
	if s.ports.Hypotheses == nil {
		return nil, HypothesesOutput{}, fmt.Errorf("hypotheses: %w", errToolUnavailable)
	}

	cfg, err := s.ports.llmConfig()
	if err != nil {
		return nil, HypothesesOutput{}, err
	}

	result := s.ports.Hypotheses.Generate(ctx, input.Text, cfg, input.Count)
	return nil, HypothesesOutput{
		OK:      result.OK(),
		Text:    result.Text,
		Kind:    string(result.Kind),
		Message: result.Message,
	}, nil
}

// handleConceptGraph handles the concept_graph tool invocation.
func (s *Server) handleConceptGraph(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ConceptGraphInput,
) (*mcp.CallToolResult, ConceptGraphOutput, error) {
	if s.ports.Concepts == nil {
		return nil, ConceptGraphOutput{}, fmt.Errorf("concept_graph: %w", errToolUnavailable)
	}

	threshold := s.ports.conceptThreshold()
	if input.Threshold != nil {
		threshold = *input.Threshold
	}

	keyphrases, err := s.ports.Concepts.Extract(ctx, input.Text, input.TopK)
	if err != nil {
		return nil, ConceptGraphOutput{}, err
	}
	graph, err := s.ports.Concepts.BuildGraph(ctx, keyphrases, threshold)
	if err != nil {
		return nil, ConceptGraphOutput{}, err
	}

	return nil, ConceptGraphOutput{
		Keyphrases: keyphrases,
		Nodes:      graph.Nodes,
		Edges:      graph.Edges,
	}, nil
}

// handleSearchPapers handles the search_papers tool invocation.
func (s *Server) handleSearchPapers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchPapersInput,
) (*mcp.CallToolResult, SearchPapersOutput, error) {
	if s.ports.Literature == nil {
		return nil, SearchPapersOutput{}, fmt.Errorf("search_papers: %w", errToolUnavailable)
	}

	papers, err := s.ports.Literature.Search(ctx, input.Query, input.MaxResults)
	if err != nil {
		return nil, SearchPapersOutput{}, err
	}
	if papers == nil {
		papers = []domain.Paper{}
	}

	return nil, SearchPapersOutput{Papers: papers, Count: len(papers)}, nil
}

func hitOutputs(hits []domain.SearchHit) []HitOutput {
	out := make([]HitOutput, len(hits))
	for i := range hits {
		out[i] = HitOutput{
			ChunkID: hits[i].Chunk.ID,
			Content: hits[i].Chunk.Content,
			Score:   hits[i].Score,
		}
	}
	return out
}
