package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/argonaut/internal/adapters/driven/ai"
	"github.com/custodia-labs/argonaut/internal/adapters/driven/arxiv"
	"github.com/custodia-labs/argonaut/internal/adapters/driven/config/file"
	"github.com/custodia-labs/argonaut/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/argonaut/internal/adapters/driven/keyphrase"
	"github.com/custodia-labs/argonaut/internal/adapters/driven/render/html"
	storagefile "github.com/custodia-labs/argonaut/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/argonaut/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/argonaut/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/argonaut/internal/adapters/driving/cli"
	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/core/services"
	"github.com/custodia-labs/argonaut/internal/logger"
	"github.com/custodia-labs/argonaut/internal/normalisers"
	"github.com/custodia-labs/argonaut/internal/postprocessors"
)

// fallbackEmbeddingModel is used when the configured embedding provider
// cannot be constructed.
const fallbackEmbeddingModel = "hashing-384"

// wire builds the services from the settings under opts.ConfigDir.
func wire(_ context.Context, opts cli.GlobalOptions) (*cli.Services, func() error, error) {
	home := opts.ConfigDir
	if home == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, nil, err
		}
		home = dir
	}

	configStore, err := file.NewConfigStore(home)
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator(), home)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	fail := func(err error) (*cli.Services, func() error, error) {
		_ = closeAll()
		return nil, nil, err
	}

	store, err := sqlite.NewStore(settings.Paths.IndexDir)
	if err != nil {
		return fail(fmt.Errorf("open index store: %w", err))
	}
	closers = append(closers, store.Close)

	embedder, err := embeddingService(&settings.Embedding)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, embedder.Close)

	interactionLog, err := storagefile.OpenInteractionLog(settings.Paths.LogFile)
	if err != nil {
		return fail(fmt.Errorf("open interaction log: %w", err))
	}
	closers = append(closers, interactionLog.Close)

	llms := ai.NewCache()
	closers = append(closers, llms.Close)

	indexService := services.NewIndexService(store, embedder, flat.NewVectorIndex,
		services.WithDefaultTopK(settings.Retrieval.TopK))

	answerService := services.NewAnswerService(indexService, llms,
		services.WithAnswerTopK(settings.Retrieval.TopK),
		services.WithContextChars(settings.Retrieval.ContextChars),
		services.WithInteractionLog(interactionLog))
	hypothesisService := services.NewHypothesisService(llms,
		services.WithHypothesisCount(settings.Hypotheses.Count),
		services.WithHypothesisTemperature(settings.Hypotheses.Temperature),
		services.WithPrefixChars(settings.Hypotheses.PrefixChars))
	critiqueService := services.NewCritiqueService(llms)

	var watchPrompts func(context.Context) error
	prompts, err := file.NewPromptStore(settings.Paths.PromptDir)
	if err != nil {
		logger.Warn("prompt overrides disabled: %v", err)
	} else {
		for _, aware := range []driven.PromptStoreAware{answerService, hypothesisService, critiqueService} {
			aware.SetPromptStore(prompts)
		}
		watchPrompts = func(ctx context.Context) error {
			return file.WatchPrompts(ctx, prompts, nil)
		}
	}

	conceptService := services.NewConceptService(
		keyphrase.New(embedder),
		embedder,
		html.New(settings.Paths.ConceptMapDir),
		services.WithConceptTopK(settings.Concepts.TopK),
		services.WithThreshold(settings.Concepts.Threshold),
	)

	processors := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(processors)
	pipeline, err := postprocessors.BuildPipeline(processors, settings.Pipeline)
	if err != nil {
		return fail(fmt.Errorf("build pipeline: %w", err))
	}
	ingestService := services.NewIngestService(normalisers.NewDefaultRegistry(), pipeline, indexService)

	literatureService := services.NewLiteratureService(
		arxiv.NewClient(arxiv.Config{}), indexService, settings.Papers.MaxResults)

	return &cli.Services{
		Index:        indexService,
		Ingest:       ingestService,
		Answer:       answerService,
		Hypotheses:   hypothesisService,
		Critique:     critiqueService,
		Concepts:     conceptService,
		Interactions: services.NewInteractionService(interactionLog),
		Literature:   literatureService,
		Settings:     settingsService,
		WatchPrompts: watchPrompts,
	}, closeAll, nil
}

// embeddingService builds the configured embedder, falling back to the
// offline hashing embedder when the provider is not configured.
func embeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	embedder, err := ai.CreateEmbeddingService(settings)
	if err == nil {
		return embedder, nil
	}
	if !errors.Is(err, domain.ErrConfiguration) {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	logger.Warn("embedding provider not configured (%v), using offline hashing embedder", err)
	return hashing.NewEmbeddingService(domain.EmbeddingDimensions()[fallbackEmbeddingModel])
}
