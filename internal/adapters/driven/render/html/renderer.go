// Package html renders concept graphs as self-contained interactive HTML pages.
//
// Pages load vis-network from a CDN and lay the graph out with the
// ForceAtlas2 solver. Every call writes a new uniquely named file, so
// earlier artifacts are never touched.
package html

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// Ensure Renderer implements the interface.
var _ driven.GraphRenderer = (*Renderer)(nil)

// Default page settings.
const (
	DefaultHeight     = "650px"
	DefaultBackground = "#222222"
	DefaultFontColor  = "white"
	DefaultGravity    = -50
	DefaultFilePrefix = "concept_map_"
	DefaultScriptURL  = "https://unpkg.com/vis-network@9.1.9/standalone/umd/vis-network.min.js"
)

//go:embed page.html.tmpl
var pageSource string

var pageTemplate = template.Must(template.New("concept_map").Parse(pageSource))

// Renderer writes concept map pages under a directory.
type Renderer struct {
	dir        string
	height     string
	background string
	fontColor  string
	gravity    float64
	scriptURL  string
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithHeight sets the CSS height of the graph canvas.
func WithHeight(h string) Option {
	return func(r *Renderer) {
		if h != "" {
			r.height = h
		}
	}
}

// WithColors sets the background and font colors.
func WithColors(background, font string) Option {
	return func(r *Renderer) {
		if background != "" {
			r.background = background
		}
		if font != "" {
			r.fontColor = font
		}
	}
}

// WithGravity sets the ForceAtlas2 gravitational constant.
func WithGravity(g float64) Option {
	return func(r *Renderer) {
		r.gravity = g
	}
}

// WithScriptURL overrides where vis-network is loaded from.
func WithScriptURL(url string) Option {
	return func(r *Renderer) {
		if url != "" {
			r.scriptURL = url
		}
	}
}

// New creates a renderer writing to dir. The directory is created on first render.
func New(dir string, opts ...Option) *Renderer {
	r := &Renderer{
		dir:        dir,
		height:     DefaultHeight,
		background: DefaultBackground,
		fontColor:  DefaultFontColor,
		gravity:    DefaultGravity,
		scriptURL:  DefaultScriptURL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir returns the output directory.
func (r *Renderer) Dir() string {
	return r.dir
}

type pageNode struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Title string `json:"title"`
	Size  int    `json:"size"`
}

type pageEdge struct {
	From  int     `json:"from"`
	To    int     `json:"to"`
	Value float64 `json:"value"`
	Title string  `json:"title"`
}

type pageData struct {
	Title      string
	ScriptURL  string
	Height     string
	Background string
	FontColor  string
	Gravity    float64
	Nodes      []pageNode
	Edges      []pageEdge
}

// Render writes graph to a new file and returns its path.
// The file is written to a temporary name first and renamed into place.
func (r *Renderer) Render(ctx context.Context, graph *domain.ConceptGraph) (string, error) {
	if graph == nil {
		return "", fmt.Errorf("%w: nil concept graph", domain.ErrInvalidInput)
	}
	if r.dir == "" {
		return "", fmt.Errorf("%w: no concept map directory configured", domain.ErrConfiguration)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, r.data(graph)); err != nil {
		return "", fmt.Errorf("render concept map: %w", err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create concept map directory: %w", err)
	}

	name := DefaultFilePrefix + strings.ReplaceAll(uuid.NewString(), "-", "") + ".html"
	path := filepath.Join(r.dir, name)

	tmp, err := os.CreateTemp(r.dir, ".concept_map-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write concept map: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close concept map: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("chmod concept map: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename concept map: %w", err)
	}

	logger.Debug("concept map: wrote %d nodes, %d edges to %s", len(graph.Nodes), len(graph.Edges), path)
	return path, nil
}

func (r *Renderer) data(graph *domain.ConceptGraph) pageData {
	d := pageData{
		Title:      "Concept map",
		ScriptURL:  r.scriptURL,
		Height:     r.height,
		Background: r.background,
		FontColor:  r.fontColor,
		Gravity:    r.gravity,
		Nodes:      make([]pageNode, len(graph.Nodes)),
		Edges:      make([]pageEdge, len(graph.Edges)),
	}
	for i, n := range graph.Nodes {
		d.Nodes[i] = pageNode{
			ID:    n.ID,
			Label: n.Phrase,
			Title: fmt.Sprintf("%s (%.3f)", n.Phrase, n.Score),
			Size:  n.Size,
		}
	}
	for i, e := range graph.Edges {
		d.Edges[i] = pageEdge{
			From:  e.Source,
			To:    e.Target,
			Value: e.Weight,
			Title: fmt.Sprintf("%.3f", e.Weight),
		}
	}
	return d
}
