package mcp

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_RequiresIndex(t *testing.T) {
	server, err := NewServer(&Ports{})
	assert.ErrorIs(t, err, ErrMissingIndexService)
	assert.Nil(t, server)

	server, err = NewServer(&Ports{Index: &mockIndexService{}})
	require.NoError(t, err)
	assert.NotNil(t, server)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"empty", &Ports{}, ErrMissingIndexService},
		{"index only", &Ports{Index: &mockIndexService{}}, nil},
		{"all services", &Ports{
			Index:        &mockIndexService{},
			Answer:       &mockAnswerService{},
			Hypotheses:   &mockHypothesisService{},
			Concepts:     &mockConceptService{},
			Interactions: &mockInteractionService{},
			Literature:   &mockLiteratureService{},
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHandler_Health(t *testing.T) {
	server, err := NewServer(&Ports{Index: &mockIndexService{}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, HealthPath, nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/elsewhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServe_StopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{Index: &mockIndexService{}})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + HealthPath)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok\n", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestRunHTTP_BadAddress(t *testing.T) {
	server, err := NewServer(&Ports{Index: &mockIndexService{}})
	require.NoError(t, err)

	err = server.RunHTTP(context.Background(), "not-an-address")
	assert.ErrorContains(t, err, "listen")
}
