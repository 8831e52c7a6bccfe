package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.Catalog.BaseURL)
	assert.Equal(t, "en-US", cfg.Catalog.Language)
	assert.True(t, cfg.Catalog.IncludeOverview)
	assert.Equal(t, 1000, cfg.Index.ChunkSize)
	assert.Equal(t, 200, cfg.Index.ChunkOverlap)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Empty(t, cfg.LLM.Model)
	assert.Equal(t, 1, cfg.LLM.MaxAttempts)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
}

func TestLoadFileEnvAliases(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "tmdb-token")
	t.Setenv("MY_OPENAI_KEY", "sk-test")
	t.Setenv("CHATBOT_INDEX_CHUNK_SIZE", "500")
	t.Setenv("CHATBOT_LLM_PROVIDER", "gemini")
	t.Setenv("CHATBOT_CATALOG_INCLUDE_OVERVIEW", "false")

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, "tmdb-token", cfg.Catalog.APIKey)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAIAPIKey)
	assert.Equal(t, 500, cfg.Index.ChunkSize)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.False(t, cfg.Catalog.IncludeOverview)
}

func TestLoadFileYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := []byte("server:\n  port: 9090\nindex:\n  top_k: 3\n  search_type: mmr\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o644))
	t.Setenv("PORT", "9191")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port, "environment wins over file")
	assert.Equal(t, 3, cfg.Index.TopK)
	assert.Equal(t, "mmr", cfg.Index.SearchType)
}

func TestLoadFileRejectsInvalidValues(t *testing.T) {
	t.Setenv("CHATBOT_LLM_PROVIDER", "llama")
	_, err := LoadFile("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidateOverlapBelowChunkSize(t *testing.T) {
	cfg := Default()
	cfg.Index.ChunkOverlap = cfg.Index.ChunkSize
	assert.Error(t, cfg.Validate())
}

func TestMissingCredentialsAreNotValidated(t *testing.T) {
	cfg := Default()
	cfg.Catalog.APIKey = ""
	cfg.LLM.OpenAIAPIKey = ""
	assert.NoError(t, cfg.Validate())
}

func TestEnvTransform(t *testing.T) {
	tests := map[string]string{
		"TMDB_API_KEY":                  "catalog.api_key",
		"MY_OPENAI_KEY":                 "llm.openai_api_key",
		"CHATBOT_INDEX_TOP_K":           "index.top_k",
		"CHATBOT_SERVER_PORT":           "server.port",
		"CHATBOT_STORAGE_DATABASE_PATH": "storage.database_path",
		"CHATBOT_":                      "",
		"CHATBOT_INDEX":                 "",
		"HOME":                          "",
		"PATH":                          "",
	}
	for input, want := range tests {
		assert.Equal(t, want, envTransform(input), "env %q", input)
	}
}

func TestLoadDotEnvMissingFileIsFine(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TMDB_API_KEY=from-file\n"), 0o600))
	t.Setenv("TMDB_API_KEY", "from-env")

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv("TMDB_API_KEY"))
}

func TestServerAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8000}
	assert.Equal(t, "127.0.0.1:8000", s.Addr())
}
