package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/argonaut/internal/core/domain"
)

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{
		"ingest", "ask", "hypotheses", "critique", "concepts",
		"papers", "history", "indexes", "settings", "mcp", "tui", "version",
	} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "config-dir", "openai-key", "model-path", "backend"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestInitServices_UsesInitializer(t *testing.T) {
	m := setupTestServices(t)
	var gotOpts GlobalOptions
	closed := false
	SetInitializer(func(_ context.Context, opts GlobalOptions) (*Services, func() error, error) {
		gotOpts = opts
		return &Services{Index: m.index}, func() error { closed = true; return nil }, nil
	})
	defer SetInitializer(nil)

	out, err := runCommand(t, "--config-dir", "/tmp/argonaut-test", "indexes")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/argonaut-test", gotOpts.ConfigDir)
	assert.True(t, closed)
	assert.Contains(t, out, "attention.pdf")
}

func TestInitServices_InitializerError(t *testing.T) {
	setupTestServices(t)
	SetInitializer(func(context.Context, GlobalOptions) (*Services, func() error, error) {
		return nil, nil, errors.New("no home")
	})
	defer SetInitializer(nil)

	_, err := runCommand(t, "indexes")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no home")
}

func TestIngestCmd(t *testing.T) {
	m := setupTestServices(t)

	out, err := runCommand(t, "ingest", "paper.pdf")

	require.NoError(t, err)
	assert.Equal(t, "paper.pdf", m.ingest.lastPath)
	assert.Contains(t, out, "Indexed 3 chunks from paper.pdf")
	assert.Contains(t, out, "256 dimensions")
}

func TestIngestCmd_RequiresFile(t *testing.T) {
	setupTestServices(t)

	_, err := runCommand(t, "ingest")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestIngestCmd_ExpandsPatterns(t *testing.T) {
	m := setupTestServices(t)
	dir := t.TempDir()
	for _, name := range []string{"a.pdf", "nested/b.pdf", "notes.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	}

	out, err := runCommand(t, "ingest", filepath.Join(dir, "**", "*.pdf"), filepath.Join(dir, "a.pdf"))

	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "Indexed 3 chunks"))
	assert.Equal(t, ".pdf", filepath.Ext(m.ingest.lastPath))
}

func TestIngestCmd_PatternWithoutMatches(t *testing.T) {
	setupTestServices(t)

	_, err := runCommand(t, "ingest", filepath.Join(t.TempDir(), "*.pdf"))

	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestIngestCmd_Error(t *testing.T) {
	m := setupTestServices(t)
	m.ingest.err = domain.ErrFileNotFound

	_, err := runCommand(t, "ingest", "missing.pdf")

	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestAskCmd(t *testing.T) {
	m := setupTestServices(t)
	m.settings.settings.LLM.APIKey = "sk-settings"

	out, err := runCommand(t, "ask", "attention.pdf", "What", "is", "proposed?")

	require.NoError(t, err)
	assert.Equal(t, "What is proposed?", m.answer.question)
	assert.Equal(t, "sk-settings", m.answer.lastCfg.RemoteAPIKey)
	assert.Contains(t, out, "The Transformer.")
	assert.NotContains(t, out, "Sources (")
}

func TestAskCmd_WithSources(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "ask", "--sources", "attention.pdf", "What is proposed?")

	require.NoError(t, err)
	assert.Contains(t, out, "Sources (1):")
	assert.Contains(t, out, "1. [0.912] We propose the Transformer.")
}

func TestAskCmd_UnknownSource(t *testing.T) {
	setupTestServices(t)

	_, err := runCommand(t, "ask", "nope.pdf", "q")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAskCmd_OpenAIKeyFlag(t *testing.T) {
	m := setupTestServices(t)

	_, err := runCommand(t, "--openai-key", "sk-flag", "ask", "attention.pdf", "q")

	require.NoError(t, err)
	assert.Equal(t, "sk-flag", m.answer.lastCfg.RemoteAPIKey)
	assert.Equal(t, domain.AIProviderOpenAI, m.answer.lastCfg.HostedProvider)
}

func TestHypothesesCmd_RecordsOnSuccess(t *testing.T) {
	m := setupTestServices(t)

	out, err := runCommand(t, "hypotheses", "-n", "5", "attention.pdf")

	require.NoError(t, err)
	assert.Equal(t, 5, m.hypotheses.lastN)
	assert.Contains(t, out, "- Sparse attention suffices")
	require.Len(t, m.interactions.recorded, 1)
	assert.Equal(t, hypothesesQuestion, m.interactions.recorded[0].Question)
	assert.Equal(t, "attention.pdf", m.interactions.recorded[0].ContextOrEmpty())
}

func TestHypothesesCmd_Temperature(t *testing.T) {
	m := setupTestServices(t)

	_, err := runCommand(t, "hypotheses", "attention.pdf")
	require.NoError(t, err)
	assert.False(t, m.hypotheses.lastCfg.TemperatureSet)

	_, err = runCommand(t, "hypotheses", "--temperature", "0", "attention.pdf")
	require.NoError(t, err)
	assert.True(t, m.hypotheses.lastCfg.TemperatureSet)
	assert.InDelta(t, 0.0, m.hypotheses.lastCfg.Temperature, 1e-9)
}

func TestHypothesesCmd_FailureNotRecorded(t *testing.T) {
	m := setupTestServices(t)
	m.hypotheses.result = domain.HypothesisErr(domain.KindConfiguration, "no model configured")

	_, err := runCommand(t, "hypotheses", "attention.pdf")

	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Empty(t, m.interactions.recorded)
}

func TestCritiqueCmd_Persona(t *testing.T) {
	m := setupTestServices(t)

	out, err := runCommand(t, "critique", "--persona", "reviewer", "attention.pdf")

	require.NoError(t, err)
	assert.Equal(t, domain.PersonaReviewer, m.critique.lastPersona)
	assert.Contains(t, out, "critique from reviewer")
}

func TestCritiqueCmd_UnknownPersona(t *testing.T) {
	setupTestServices(t)

	_, err := runCommand(t, "critique", "-p", "poet", "attention.pdf")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCritiqueCmd_All(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "critique", "attention.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "## Researcher")
	assert.Contains(t, out, "weak baselines")
	assert.Contains(t, out, "it pays attention")
}

func TestCritiqueCmd_AllPartialFailure(t *testing.T) {
	m := setupTestServices(t)
	m.critique.err = domain.ErrModelUnavailable

	out, err := runCommand(t, "critique", "attention.pdf")

	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	assert.Contains(t, out, "novel")
}

func TestConceptsCmd(t *testing.T) {
	m := setupTestServices(t)
	m.settings.settings.Concepts.Threshold = 0.4

	out, err := runCommand(t, "concepts", "-k", "7", "attention.pdf")

	require.NoError(t, err)
	assert.Equal(t, 7, m.concepts.lastTopK)
	assert.InDelta(t, 0.4, m.concepts.lastThreshold, 1e-9)
	assert.Contains(t, out, "Keyphrases (2):")
	assert.Contains(t, out, "1 edges above similarity 0.40")
	assert.Contains(t, out, "Concept map written to /tmp/concepts/attention.html")
}

func TestConceptsCmd_ThresholdFlagWins(t *testing.T) {
	m := setupTestServices(t)
	m.settings.settings.Concepts.Threshold = 0.4

	_, err := runCommand(t, "concepts", "--threshold", "0.8", "attention.pdf")

	require.NoError(t, err)
	assert.InDelta(t, 0.8, m.concepts.lastThreshold, 1e-9)
}

func TestConceptsCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "concepts", "--json", "attention.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, `"phrase": "self attention"`)
	assert.Contains(t, out, `"weight": 0.8`)
	assert.NotContains(t, out, "Concept map written")
}

func TestPapersSearchCmd(t *testing.T) {
	m := setupTestServices(t)
	m.literature.papers = []domain.Paper{{
		Title:   "Attention Is All You Need",
		Summary: "The dominant sequence transduction models...",
		URL:     "http://arxiv.org/abs/1706.03762v7",
		PDFURL:  "http://arxiv.org/pdf/1706.03762v7",
		Authors: []string{"Ashish Vaswani", "Noam Shazeer"},
	}}

	out, err := runCommand(t, "papers", "search", "-n", "2", "attention", "transformer")

	require.NoError(t, err)
	assert.Equal(t, "attention transformer", m.literature.lastQuery)
	assert.Equal(t, 2, m.literature.lastMax)
	assert.Contains(t, out, "Papers (1):")
	assert.Contains(t, out, "Ashish Vaswani, Noam Shazeer")
	assert.Contains(t, out, "http://arxiv.org/pdf/1706.03762v7")
	assert.Equal(t, 0, m.literature.ingested)
}

func TestPapersSearchCmd_Ingest(t *testing.T) {
	m := setupTestServices(t)
	m.literature.papers = []domain.Paper{{Title: "A"}, {Title: "B"}}

	out, err := runCommand(t, "papers", "search", "--ingest", "attention")

	require.NoError(t, err)
	assert.Equal(t, 2, m.literature.ingested)
	assert.Contains(t, out, "Indexed abstracts into arxiv_search (2 chunks)")
}

func TestPapersSearchCmd_NoResults(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "papers", "search", "nothing")

	require.NoError(t, err)
	assert.Contains(t, out, "No papers found.")
}

func TestHistoryCmd(t *testing.T) {
	m := setupTestServices(t)
	tag := "attention.pdf"
	m.interactions.records = []domain.InteractionRecord{
		{Timestamp: time.Now(), Question: "What is attention?", Answer: "A weighting.", Context: &tag},
		{Timestamp: time.Now(), Question: "Untagged", Answer: "yes"},
	}

	out, err := runCommand(t, "history", "-n", "3")

	require.NoError(t, err)
	assert.Equal(t, 3, m.interactions.lastLimit)
	assert.Contains(t, out, "[attention.pdf]")
	assert.Contains(t, out, "[-]")
	assert.Contains(t, out, "Q: What is attention?")
}

func TestHistoryListCmd_Empty(t *testing.T) {
	m := setupTestServices(t)

	out, err := runCommand(t, "history", "list")

	require.NoError(t, err)
	assert.Equal(t, 10, m.interactions.lastLimit)
	assert.Contains(t, out, "No interactions recorded.")
}

func TestHistoryExportCmd_Stdout(t *testing.T) {
	m := setupTestServices(t)

	out, err := runCommand(t, "history", "export", "--tag", "attention.pdf")

	require.NoError(t, err)
	assert.Equal(t, "attention.pdf", m.interactions.lastTag)
	assert.Contains(t, out, "# Argonaut session: attention.pdf")
}

func TestHistoryExportCmd_File(t *testing.T) {
	setupTestServices(t)
	path := filepath.Join(t.TempDir(), "session.md")

	out, err := runCommand(t, "history", "export", "-o", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Transcript written to "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Argonaut session:")
}

func TestIndexesCmd(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "indexes")

	require.NoError(t, err)
	assert.Contains(t, out, "Indexes (1):")
	assert.Contains(t, out, "attention.pdf")
	assert.Contains(t, out, "12 chunks")
}

func TestIndexesCmd_Empty(t *testing.T) {
	m := setupTestServices(t)
	m.index.handles = nil

	out, err := runCommand(t, "indexes")

	require.NoError(t, err)
	assert.Contains(t, out, "No indexes.")
}

func TestSettingsShowCmd(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "settings")

	require.NoError(t, err)
	for _, section := range []string{"[Embedding]", "[LLM]", "[Retrieval]", "[Concepts]", "[Hypotheses]", "[Paths]"} {
		assert.Contains(t, out, section)
	}
	assert.Contains(t, out, "Run 'argonaut settings llm'")
}

func TestSettingsSetCmd_MasksSecrets(t *testing.T) {
	m := setupTestServices(t)

	out, err := runCommand(t, "settings", "set", "llm.api_key", "sk-abcdefghijkl")

	require.NoError(t, err)
	assert.Equal(t, "sk-abcdefghijkl", m.settings.sets["llm.api_key"])
	assert.Contains(t, out, "Set llm.api_key = sk-a...ijkl")
}

func TestSettingsSetCmd_Error(t *testing.T) {
	m := setupTestServices(t)
	m.settings.setErr = domain.ErrInvalidInput

	_, err := runCommand(t, "settings", "set", "retrieval.top_k", "many")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsKeysCmd(t *testing.T) {
	setupTestServices(t)

	out, err := runCommand(t, "settings", "keys")

	require.NoError(t, err)
	assert.Contains(t, out, "retrieval.top_k")
}

func TestCommands_WithoutServices(t *testing.T) {
	setupTestServices(t)
	SetServices(nil)

	for _, args := range [][]string{
		{"ingest", "a.pdf"},
		{"ask", "a.pdf", "q"},
		{"hypotheses", "a.pdf"},
		{"critique", "a.pdf"},
		{"concepts", "a.pdf"},
		{"papers", "search", "q"},
		{"history"},
		{"indexes"},
		{"settings"},
		{"mcp", "serve"},
	} {
		_, err := runCommand(t, args...)
		assert.Error(t, err, "%v", args)
	}
}
