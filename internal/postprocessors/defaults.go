package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/postprocessors/chunker"
	"github.com/custodia-labs/argonaut/internal/postprocessors/compact"
	"github.com/custodia-labs/argonaut/internal/postprocessors/window"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("lines", buildLines)
	r.Register("compact", func(map[string]any) (driven.PostProcessor, error) {
		return compact.New(), nil
	})
	r.Register("window", buildWindow)
}

// BuildPipeline assembles the configured processors in order.
func BuildPipeline(r *Registry, cfg domain.PipelineConfig) (*Pipeline, error) {
	if len(cfg.Processors) == 0 {
		return nil, fmt.Errorf("%w: empty pipeline", domain.ErrInvalidInput)
	}

	p := NewPipeline()
	for _, name := range cfg.Processors {
		proc, err := r.Build(name, cfg.GetProcessorConfig(name))
		if err != nil {
			return nil, fmt.Errorf("build pipeline: %w", err)
		}
		p.Add(proc)
	}
	return p, nil
}

// DefaultPipeline builds the default pipeline with the built-in registry.
func DefaultPipeline() *Pipeline {
	r := NewRegistry()
	RegisterDefaults(r)
	p, err := BuildPipeline(r, domain.DefaultPipelineConfig())
	if err != nil {
		// Built-in configuration only names registered processors.
		panic(err)
	}
	return p
}

// buildLines creates a line chunker from generic config.
// Supported config keys:
//   - delimiter (string): Split delimiter (default: "\n")
func buildLines(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option
	if d, ok := cfg["delimiter"].(string); ok {
		opts = append(opts, chunker.WithDelimiter(d))
	}
	return chunker.New(opts...), nil
}

// buildWindow creates a window processor from generic config.
// Supported config keys:
//   - chunk_size (int): Runes per window (default: 2000)
//   - overlap (int): Overlapping runes between windows (default: 200)
func buildWindow(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []window.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, window.WithChunkSize(size))
		}
		if _, ok := cfg["overlap"]; ok {
			opts = append(opts, window.WithOverlap(getIntFromConfig(cfg, "overlap")))
		}
	}

	return window.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
