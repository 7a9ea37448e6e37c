package ollama

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/argonaut/internal/adapters/driven/httpapi"
	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/logger"
)

// importTimeout bounds uploading a model file to Ollama.
const importTimeout = 30 * time.Minute

var nonModelChars = regexp.MustCompile(`[^a-z0-9._-]+`)

type createRequest struct {
	Model  string            `json:"model"`
	Files  map[string]string `json:"files"`
	Stream bool              `json:"stream"`
}

// ModelNameForFile derives the Ollama model name used for a local file.
func ModelNameForFile(path string) string {
	base := strings.ToLower(filepath.Base(path))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.Trim(nonModelChars.ReplaceAllString(base, "-"), "-.")
	if base == "" {
		base = "model"
	}
	return "argonaut-" + base
}

// ImportModel registers the GGUF file at path with the Ollama server at
// baseURL and returns the model name. Already-registered models are reused.
func ImportModel(ctx context.Context, baseURL, path string) (string, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	api := httpapi.New("ollama", baseURL, importTimeout, httpapi.WithFallback(domain.ErrModelUnavailable))
	defer api.Close()
	name := ModelNameForFile(path)

	err := api.Post(ctx, "/api/show", map[string]string{"model": name}, nil)
	switch {
	case err == nil:
		return name, nil
	case !httpapi.IsStatus(err, http.StatusNotFound):
		return "", fmt.Errorf("ollama show %s: %w", name, err)
	}

	done := logger.Timed("ollama import " + filepath.Base(path))
	defer done()

	digest, size, err := fileDigest(path)
	if err != nil {
		return "", err
	}
	if err := pushBlob(ctx, api, path, digest, size); err != nil {
		return "", err
	}

	create := createRequest{Model: name, Files: map[string]string{filepath.Base(path): digest}}
	if err := api.Post(ctx, "/api/create", create, nil); err != nil {
		return "", fmt.Errorf("ollama create %s: %w", name, err)
	}
	return name, nil
}

func fileDigest(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", 0, fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
		}
		return "", 0, fmt.Errorf("open model file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("hash model file: %w", err)
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil)), n, nil
}

// pushBlob uploads the file unless the server already holds its digest.
func pushBlob(ctx context.Context, api *httpapi.Client, path, digest string, size int64) error {
	blob := "/api/blobs/" + digest

	err := api.Head(ctx, blob)
	switch {
	case err == nil:
		return nil
	case !httpapi.IsStatus(err, http.StatusNotFound):
		return fmt.Errorf("ollama blob check: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open model file: %w", err)
	}
	defer f.Close()

	if err := api.Upload(ctx, blob, f, size); err != nil {
		return fmt.Errorf("ollama blob upload: %w", err)
	}
	return nil
}
