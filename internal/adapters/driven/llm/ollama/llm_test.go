package ollama

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/argonaut/internal/core/domain"
	"github.com/custodia-labs/argonaut/internal/core/ports/driven"
)

func TestGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "argonaut-mistral-7b", req.Model)
		assert.False(t, req.Stream)
		require.NotNil(t, req.Options)
		assert.Equal(t, 0.3, req.Options.Temperature)

		_ = json.NewEncoder(w).Encode(generateResponse{Response: " answer ", Done: true})
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL, Model: "argonaut-mistral-7b"})
	got, err := s.Generate(context.Background(), "q", driven.GenerateOptions{Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "answer", got.Text)
}

func TestGenerate_ModelMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	s := NewLLMService(LLMConfig{BaseURL: server.URL})
	_, err := s.Generate(context.Background(), "q", driven.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestGenerate_Unreachable(t *testing.T) {
	s := NewLLMService(LLMConfig{BaseURL: "http://127.0.0.1:1"})
	_, err := s.Generate(context.Background(), "q", driven.GenerateOptions{})
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}

func TestModelNameForFile(t *testing.T) {
	tests := map[string]string{
		"/models/Mistral-7B-Instruct.Q4_K_M.gguf": "argonaut-mistral-7b-instruct.q4_k_m",
		"llama 2 (chat).bin":                      "argonaut-llama-2-chat",
		"/tmp/...gguf":                            "argonaut-model",
	}
	for in, want := range tests {
		assert.Equal(t, want, ModelNameForFile(in), in)
	}
}

// fakeOllama records the import calls made against it.
type fakeOllama struct {
	mu      sync.Mutex
	known   bool
	blob    []byte
	created *createRequest
}

func (f *fakeOllama) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/show", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.known {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/api/blobs/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		f.blob, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/api/create", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		var req createRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.created = &req
		f.known = true
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})
	return mux
}

func TestImportModel_UploadsAndCreates(t *testing.T) {
	fake := &fakeOllama{}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "tiny.gguf")
	content := []byte("GGUF fake weights")
	require.NoError(t, os.WriteFile(path, content, 0600))
	sum := sha256.Sum256(content)
	digest := "sha256:" + hex.EncodeToString(sum[:])

	name, err := ImportModel(context.Background(), server.URL, path)
	require.NoError(t, err)
	assert.Equal(t, "argonaut-tiny", name)
	assert.Equal(t, content, fake.blob)
	require.NotNil(t, fake.created)
	assert.Equal(t, map[string]string{"tiny.gguf": digest}, fake.created.Files)

	// Second import is a no-op.
	fake.created = nil
	name, err = ImportModel(context.Background(), server.URL, path)
	require.NoError(t, err)
	assert.Equal(t, "argonaut-tiny", name)
	assert.Nil(t, fake.created)
}

func TestImportModel_MissingFile(t *testing.T) {
	fake := &fakeOllama{}
	server := httptest.NewServer(fake.handler(t))
	defer server.Close()

	_, err := ImportModel(context.Background(), server.URL, filepath.Join(t.TempDir(), "absent.gguf"))
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}
