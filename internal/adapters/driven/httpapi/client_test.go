package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

type echo struct {
	Value string `json:"value"`
}

func TestPost_SendsJSONAndHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/echo", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"value":"ping"}`, string(body))
		_, _ = w.Write([]byte(`{"value":"pong"}`))
	}))
	defer server.Close()

	c := New("test", server.URL+"/", time.Second,
		WithBearer("sk-test"), WithHeader("anthropic-version", "2023-06-01"))
	assert.Equal(t, server.URL, c.BaseURL())

	var out echo
	require.NoError(t, c.Post(context.Background(), "/v1/echo", echo{Value: "ping"}, &out))
	assert.Equal(t, "pong", out.Value)
}

func TestWithBearer_EmptyTokenSendsNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
	}))
	defer server.Close()

	c := New("test", server.URL, time.Second, WithBearer(""))
	assert.NoError(t, c.Get(context.Background(), "/", nil))
}

func TestRequest_StatusClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		fallback error
		want     error
		message  string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, nil, domain.ErrConfiguration, "bad key"},
		{"forbidden", http.StatusForbidden, ``, nil, domain.ErrConfiguration, ""},
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, nil, domain.ErrRateLimited, "slow down"},
		{"not found", http.StatusNotFound, `{"error":"model not found"}`, nil, domain.ErrModelUnavailable, "model not found"},
		{"server error", http.StatusInternalServerError, `<html>`, nil, domain.ErrGeneration, "<html>"},
		{"server error fallback", http.StatusBadGateway, ``, domain.ErrModelUnavailable, domain.ErrModelUnavailable, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			var opts []Option
			if tt.fallback != nil {
				opts = append(opts, WithFallback(tt.fallback))
			}
			c := New("test", server.URL, time.Second, opts...)

			err := c.Post(context.Background(), "/", echo{}, &echo{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.Status)
			assert.Equal(t, tt.message, se.Message)
		})
	}
}

func TestRequest_ErrorInSuccessfulBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"context length exceeded"}`))
	}))
	defer server.Close()

	err := New("test", server.URL, time.Second).Post(context.Background(), "/", echo{}, &echo{})
	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.Contains(t, err.Error(), "context length exceeded")
}

func TestRequest_UndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := New("test", server.URL, time.Second, WithFallback(domain.ErrModelUnavailable))
	err := c.Get(context.Background(), "/", &echo{})
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	assert.Contains(t, err.Error(), "decode response")
}

func TestRequest_Transport(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		c := New("test", "http://127.0.0.1:1", time.Second)
		assert.ErrorIs(t, c.Get(context.Background(), "/", nil), domain.ErrModelUnavailable)
	})

	t.Run("timeout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		c := New("test", server.URL, 20*time.Millisecond)
		assert.ErrorIs(t, c.Get(context.Background(), "/", nil), domain.ErrGeneration)
	})
}

func TestPing(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"ok", http.StatusOK, nil},
		{"unauthorized", http.StatusUnauthorized, domain.ErrConfiguration},
		{"server error", http.StatusInternalServerError, domain.ErrModelUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/models", r.URL.Path)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			err := New("test", server.URL, time.Second).Ping(context.Background(), "/models")
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHeadAndUpload(t *testing.T) {
	var uploaded string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPost:
			assert.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))
			assert.Equal(t, int64(4), r.ContentLength)
			body, _ := io.ReadAll(r.Body)
			uploaded = string(body)
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer server.Close()

	c := New("test", server.URL, time.Second, WithFallback(domain.ErrModelUnavailable))

	err := c.Head(context.Background(), "/blobs/sha256:abc")
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(err, http.StatusOK))

	require.NoError(t, c.Upload(context.Background(), "/blobs/sha256:abc", strings.NewReader("gguf"), 4))
	assert.Equal(t, "gguf", uploaded)
}
