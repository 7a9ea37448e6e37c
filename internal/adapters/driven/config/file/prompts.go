package file

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed prompts_readme.md
var promptsReadme []byte

// PromptStore serves templates from <dir>/<name>.txt. The directory is
// seeded with the built-in templates on first use, never overwriting
// files the user already edited.
type PromptStore struct {
	dir   string
	seed  sync.Once
	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore creates a store over promptDir, or <config dir>/prompts
// when promptDir is empty.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		promptDir = filepath.Join(home, "prompts")
	}
	return &PromptStore{dir: promptDir, cache: make(map[string]string)}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the template for name. An unreadable, empty or incomplete
// file yields the built-in template; only a name with neither is an error.
func (s *PromptStore) Load(name string) (string, error) {
	s.seed.Do(s.seedDefaults)

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	builtin, known := domain.DefaultPrompts[name]
	prompt, err := s.read(name)
	switch {
	case err != nil && !known:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	case err != nil:
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("prompt %s: %v, using built-in", name, err)
		}
		prompt = builtin
	case prompt == "" && !known:
		return "", fmt.Errorf("load prompt %q: %w: empty file", name, domain.ErrInvalidInput)
	case prompt == "":
		prompt = builtin
	default:
		if missing := domain.MissingPlaceholders(name, prompt); len(missing) > 0 {
			logger.Warn("prompt %s lacks {%s}, using built-in", name, strings.Join(missing, "}, {"))
			prompt = builtin
		}
	}

	s.mu.Lock()
	s.cache[name] = prompt
	s.mu.Unlock()
	return prompt, nil
}

// Reload drops cached templates.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// seedDefaults writes the built-in templates and README where missing.
// Failures are logged and leave the built-ins in effect.
func (s *PromptStore) seedDefaults() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		logger.Warn("create prompt directory %s: %v", s.dir, err)
		return
	}

	files := map[string][]byte{filepath.Join(s.dir, "README.md"): promptsReadme}
	for name, content := range domain.DefaultPrompts {
		files[s.path(name)] = []byte(content)
	}
	for path, content := range files {
		if err := writeIfAbsent(path, content); err != nil {
			logger.Warn("seed %s: %v", path, err)
		}
	}
}

func writeIfAbsent(path string, content []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
