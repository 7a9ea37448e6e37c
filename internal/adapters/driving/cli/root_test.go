package cli

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

func TestLLMConfig_NoSettingsNoKey(t *testing.T) {
	setupTestServices(t)
	SetServices(nil)

	cfg, err := llmConfig()

	require.NoError(t, err)
	assert.ErrorIs(t, cfg.Validate(), domain.ErrConfiguration)
}

func TestLLMConfig_EnvironmentKey(t *testing.T) {
	setupTestServices(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := llmConfig()

	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.RemoteAPIKey)
	assert.Empty(t, cfg.LocalModelPath)
	assert.NoError(t, cfg.Validate())
}

func TestLLMConfig_SettingsKeyBeatsEnvironment(t *testing.T) {
	m := setupTestServices(t)
	m.settings.settings.LLM.APIKey = "sk-settings"
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := llmConfig()

	require.NoError(t, err)
	assert.Equal(t, "sk-settings", cfg.RemoteAPIKey)
}

func TestLLMConfig_ModelPathFlag(t *testing.T) {
	m := setupTestServices(t)
	m.settings.settings.LLM.APIKey = "sk-settings"
	globalOpts.ModelPath = "/models/ggml-gpt4all-j.bin"

	cfg, err := llmConfig()

	require.NoError(t, err)
	assert.Empty(t, cfg.RemoteAPIKey)
	assert.Equal(t, "/models/ggml-gpt4all-j.bin", cfg.LocalModelPath)
	assert.Equal(t, domain.BackendGPTJ, cfg.ResolvedBackend())
}

func TestLLMConfig_BothFlagsConflict(t *testing.T) {
	setupTestServices(t)
	globalOpts.OpenAIKey = "sk-flag"
	globalOpts.ModelPath = "/models/llama.bin"

	cfg, err := llmConfig()

	require.NoError(t, err)
	assert.ErrorIs(t, cfg.Validate(), domain.ErrConfiguration)
}

func TestLLMConfig_BackendFlag(t *testing.T) {
	setupTestServices(t)
	globalOpts.ModelPath = "/models/model.bin"
	globalOpts.Backend = "LLAMA"

	cfg, err := llmConfig()

	require.NoError(t, err)
	assert.Equal(t, domain.BackendLlama, cfg.Backend)
}

func TestLLMConfig_InvalidBackend(t *testing.T) {
	setupTestServices(t)
	globalOpts.Backend = "mamba"

	_, err := llmConfig()

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestSetServices_Nil(t *testing.T) {
	setupTestServices(t)

	SetServices(nil)

	assert.Nil(t, indexService)
	assert.Nil(t, answerService)
	assert.Nil(t, settingsService)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "a b c", truncate("a\n b   c", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "", truncate("", 5))
}

// fakeWatcher records whether it ran and whether it saw its context end.
type fakeWatcher struct {
	started   atomic.Bool
	cancelled atomic.Bool
	err       error
}

func (w *fakeWatcher) watch(ctx context.Context) error {
	w.started.Store(true)
	if w.err != nil {
		return w.err
	}
	<-ctx.Done()
	w.cancelled.Store(true)
	return nil
}

func installWatcher(t *testing.T, w *fakeWatcher) {
	t.Helper()
	promptWatcher = w.watch
	t.Cleanup(func() { promptWatcher = nil })
}

func TestWatchPrompts_StopCancelsWatcher(t *testing.T) {
	w := &fakeWatcher{}
	installWatcher(t, w)

	stop := watchPrompts(context.Background())
	stop()

	assert.True(t, w.started.Load())
	assert.True(t, w.cancelled.Load())
}

func TestWatchPrompts_FailingWatcherDoesNotBlock(t *testing.T) {
	w := &fakeWatcher{err: errors.New("too many open files")}
	installWatcher(t, w)

	watchPrompts(context.Background())()

	assert.True(t, w.started.Load())
	assert.False(t, w.cancelled.Load())
}

func TestWatchPrompts_NoWatcher(t *testing.T) {
	promptWatcher = nil
	assert.NotPanics(t, func() { watchPrompts(context.Background())() })
}

func TestSetServices_InstallsPromptWatcher(t *testing.T) {
	w := &fakeWatcher{}
	SetServices(&Services{WatchPrompts: w.watch})
	t.Cleanup(func() { SetServices(nil) })

	require.NotNil(t, promptWatcher)
}

func TestMCPServe_RunsPromptWatcher(t *testing.T) {
	setupTestServices(t)
	w := &fakeWatcher{}
	installWatcher(t, w)

	// Hold the port so the server fails to bind and the command returns.
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()
	port := strconv.Itoa(busy.Addr().(*net.TCPAddr).Port)

	_, err = runCommand(t, "mcp", "serve", "--port", port, "--host", "127.0.0.1")

	require.Error(t, err)
	assert.True(t, w.started.Load())
	assert.True(t, w.cancelled.Load())
}
