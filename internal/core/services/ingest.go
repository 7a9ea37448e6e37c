package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/core/ports/driving"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService loads documents, chunks them and builds their indexes.
type IngestService struct {
	registry driven.NormaliserRegistry
	pipeline driven.PostProcessorPipeline
	index    driving.IndexService
}

// NewIngestService creates an ingest service.
func NewIngestService(
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	index driving.IndexService,
) *IngestService {
	return &IngestService{
		registry: registry,
		pipeline: pipeline,
		index:    index,
	}
}

// IngestFile loads the file at path and indexes it under its base name.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*driving.Ingestion, error) {
	logger.Section("Ingest")

	doc, err := s.LoadText(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.ingest(ctx, doc)
}

// IngestText chunks and indexes plain text under source.
func (s *IngestService) IngestText(ctx context.Context, source, text string) (*driving.Ingestion, error) {
	logger.Section("Ingest")

	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: source name is empty", domain.ErrInvalidInput)
	}
	doc := &domain.Document{
		ID:        uuid.New().String(),
		Source:    source,
		Title:     source,
		Content:   text,
		CreatedAt: time.Now().UTC(),
	}
	return s.ingest(ctx, doc)
}

// LoadText reads and normalises the file at path without indexing it.
func (s *IngestService) LoadText(ctx context.Context, path string) (*domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if s.registry == nil {
		return nil, fmt.Errorf("%w: no normalisers configured", domain.ErrConfiguration)
	}

	raw := &domain.RawDocument{
		Source:  filepath.Base(path),
		URI:     path,
		Content: content,
	}
	res, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", raw.Source, err)
	}
	logger.Debug("loaded %s as %s: %d bytes of text", raw.Source, raw.MIMEType, len(res.Document.Content))

	doc := res.Document
	if doc.Source == "" {
		doc.Source = raw.Source
	}
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	return &doc, nil
}

func (s *IngestService) ingest(ctx context.Context, doc *domain.Document) (*driving.Ingestion, error) {
	if s.pipeline == nil {
		return nil, fmt.Errorf("%w: no chunk pipeline configured", domain.ErrConfiguration)
	}

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", doc.Source, err)
	}
	logger.Debug("%s: %d chunks", doc.Source, len(chunks))

	handle, err := s.index.Build(ctx, doc.Source, chunks)
	if err != nil {
		return nil, err
	}
	return &driving.Ingestion{Document: *doc, Chunks: chunks, Index: handle}, nil
}
