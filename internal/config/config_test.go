package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "llama3.2", cfg.Ollama.Model)
	assert.Equal(t, "nomic-embed-text", cfg.Ollama.EmbedModel)
	assert.Equal(t, "http://localhost:8000", cfg.Chroma.BaseURL)
	assert.Equal(t, "learning-notes", cfg.Chroma.Collection)
	assert.Equal(t, 5, cfg.Search.TopK)
}

func TestValidateFillsFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chroma.Collection = ""
	cfg.Search.TopK = 0

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "learning-notes", cfg.Chroma.Collection)
	assert.Equal(t, 5, cfg.Search.TopK)
}

func TestValidateRejectsMissingModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ollama.Model = ""
	assert.Error(t, cfg.Validate())
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("COMPANION_TEST_HOST", "example.internal")

	assert.Equal(t, "http://example.internal:11434", expandEnv("http://$COMPANION_TEST_HOST:11434"))
	assert.Equal(t, "$UNSET_VAR_STAYS", expandEnv("$UNSET_VAR_STAYS"))
}

func TestPathHelpers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/tmp/companion-test"

	assert.Equal(t, "/tmp/companion-test/notes.json", cfg.NotesFile())
	assert.Equal(t, "/tmp/companion-test/skills.json", cfg.SkillsFile())
	assert.Equal(t, "/tmp/companion-test/companion.log", cfg.LogPath())

	cfg.LogFile = "/var/log/companion.log"
	assert.Equal(t, "/var/log/companion.log", cfg.LogPath())
}
