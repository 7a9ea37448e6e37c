package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for Argonaut resources.
	uriScheme = "argonaut://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing indexes.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "indexes",
		Name:        "indexes",
		Description: "Embedding indexes of the ingested papers",
		MIMEType:    "application/json",
	}, s.handleIndexesResource)

	// Static resource for the interaction log.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recorded questions and answers, oldest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	// Template for a per-source transcript.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{source}",
		Name:        "source-transcript",
		Description: "Markdown transcript of the interactions about one source",
		MIMEType:    "text/markdown",
	}, s.handleTranscriptResource)
}

// handleIndexesResource returns every stored index.
func (s *Server) handleIndexesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	handles, err := s.ports.Index.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing indexes: %w", err)
	}
	if handles == nil {
		handles = []domain.IndexHandle{}
	}

	return jsonResult(req.Params.URI, handles)
}

// handleHistoryResource returns the interaction log.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Interactions == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	records, err := s.ports.Interactions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing interactions: %w", err)
	}
	if records == nil {
		records = []domain.InteractionRecord{}
	}

	return jsonResult(req.Params.URI, records)
}

// handleTranscriptResource returns the Markdown transcript for one source.
func (s *Server) handleTranscriptResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Interactions == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract source from URI: argonaut://history/{source}
	source := extractHistorySource(req.Params.URI)
	if source == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	var buf bytes.Buffer
	if err := s.ports.Interactions.Export(ctx, &buf, source); err != nil {
		return nil, fmt.Errorf("exporting transcript: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     buf.String(),
		}},
	}, nil
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractHistorySource extracts the source from a URI like argonaut://history/{source}.
// The source may be percent-encoded.
func extractHistorySource(uri string) string {
	const prefix = uriScheme + "history/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	source, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return source
}
