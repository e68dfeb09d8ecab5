package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 0, cfg.Ontomap.CommentBestMatches)
	assert.Equal(t, 0.0, cfg.Ontomap.SearchThreshold)
	assert.Equal(t, "BAAI/bge-base-en", cfg.Embedding.Model)
	assert.Equal(t, 768, cfg.Embedding.Dimensions)
	assert.Equal(t, "data/vectordb", cfg.VectorDB.Path)
	assert.Equal(t, "csvw-ontomap", cfg.VectorDB.Collection)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "threshold at upper bound",
			modify:  func(c *Config) { c.Ontomap.SearchThreshold = 1 },
			wantErr: false,
		},
		{
			name:    "threshold too low",
			modify:  func(c *Config) { c.Ontomap.SearchThreshold = -0.1 },
			wantErr: true,
		},
		{
			name:    "threshold too high",
			modify:  func(c *Config) { c.Ontomap.SearchThreshold = 1.1 },
			wantErr: true,
		},
		{
			name:    "negative best matches",
			modify:  func(c *Config) { c.Ontomap.CommentBestMatches = -1 },
			wantErr: true,
		},
		{
			name:    "missing provider",
			modify:  func(c *Config) { c.Embedding.Provider = "" },
			wantErr: true,
		},
		{
			name:    "zero dimensions",
			modify:  func(c *Config) { c.Embedding.Dimensions = 0 },
			wantErr: true,
		},
		{
			name:    "missing vectordb path",
			modify:  func(c *Config) { c.VectorDB.Path = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
ontomap:
  comment_best_matches: 3
  search_threshold: 0.8
embedding:
  provider: openai
  model: text-embedding-3-small
  dimensions: 1536
  timeout: 30s
vectordb:
  path: /tmp/index
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Ontomap.CommentBestMatches)
	assert.Equal(t, 0.8, cfg.Ontomap.SearchThreshold)
	assert.Equal(t, "openai", cfg.Embedding.Provider)
	assert.Equal(t, 1536, cfg.Embedding.Dimensions)
	assert.Equal(t, 30*time.Second, cfg.Embedding.Timeout)
	assert.Equal(t, "/tmp/index", cfg.VectorDB.Path)
	// Unset keys keep their defaults
	assert.Equal(t, "csvw-ontomap", cfg.VectorDB.Collection)
	assert.Equal(t, 256, cfg.Embedding.BatchSize)
}

func TestLoadFromFileExpandsEnv(t *testing.T) {
	t.Setenv("CSVW_ONTOMAP_TEST_KEY", "secret")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
embedding:
  api_key: "${CSVW_ONTOMAP_TEST_KEY}"
  endpoint: "${CSVW_ONTOMAP_TEST_UNSET:-http://localhost:9000/v1}"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Embedding.APIKey)
	assert.Equal(t, "http://localhost:9000/v1", cfg.Embedding.Endpoint)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyFileKeepsUnsetKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("ontomap:\n  search_threshold: 0\n"), 0644))

	cfg := DefaultConfig()
	cfg.Ontomap.SearchThreshold = 0.7
	cfg.Embedding.Provider = "lexical"

	require.NoError(t, cfg.ApplyFile(configPath))
	assert.Equal(t, 0.0, cfg.Ontomap.SearchThreshold, "explicit zero must override")
	assert.Equal(t, "lexical", cfg.Embedding.Provider, "absent keys keep their value")
	assert.Equal(t, DefaultModel, cfg.Embedding.Model)
}

func TestApplyFileInvalidLeavesConfigUnchanged(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("embedding:\n  provider: lexical\n  dimensions: many\n"), 0644))

	cfg := DefaultConfig()
	assert.Error(t, cfg.ApplyFile(configPath))
	assert.Equal(t, DefaultConfig(), cfg)
}

// writeLayers sets up a user config under a temporary HOME and a project
// config in a temporary working directory.
func writeLayers(t *testing.T, user, project string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	if user != "" {
		dir := filepath.Join(home, UserConfigDir)
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, UserConfigFile), []byte(user), 0644))
	}

	work := t.TempDir()
	t.Chdir(work)
	if project != "" {
		require.NoError(t, os.WriteFile(filepath.Join(work, ProjectConfigFile), []byte(project), 0644))
	}
}

func TestLoaderLayersUserAndProject(t *testing.T) {
	writeLayers(t,
		"embedding:\n  provider: lexical\n  dimensions: 64\nontomap:\n  comment_best_matches: 3\n",
		"ontomap:\n  search_threshold: 0.5\n")

	cfg, err := NewLoader(nil).Load()
	require.NoError(t, err)

	assert.Equal(t, "lexical", cfg.Embedding.Provider)
	assert.Equal(t, 64, cfg.Embedding.Dimensions)
	assert.Equal(t, 3, cfg.Ontomap.CommentBestMatches)
	assert.Equal(t, 0.5, cfg.Ontomap.SearchThreshold)
	assert.Equal(t, DefaultCollection, cfg.VectorDB.Collection)
}

func TestLoaderLaterLayerResetsToZero(t *testing.T) {
	writeLayers(t,
		"ontomap:\n  comment_best_matches: 3\n  search_threshold: 0.8\n",
		"ontomap:\n  comment_best_matches: 0\n")

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("ontomap:\n  search_threshold: 0\n"), 0644))

	loader := NewLoader(nil)
	loader.ExplicitPath = explicit
	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.Ontomap.CommentBestMatches)
	assert.Equal(t, 0.0, cfg.Ontomap.SearchThreshold)
}

func TestLoaderSkipsBrokenProjectFile(t *testing.T) {
	writeLayers(t,
		"embedding:\n  provider: lexical\n",
		"embedding: [not, a, map\n")

	cfg, err := NewLoader(nil).Load()
	require.NoError(t, err)
	assert.Equal(t, "lexical", cfg.Embedding.Provider)
}

func TestConfigSaveToFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Ontomap.CommentBestMatches = 5
	require.NoError(t, cfg.SaveToFile(configPath))

	loaded, err := LoadFromFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Ontomap.CommentBestMatches)
}

func TestLoaderExplicitPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	configPath := filepath.Join(t.TempDir(), "explicit.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("vectordb:\n  collection: custom\n"), 0644))

	loader := NewLoader(nil)
	loader.ExplicitPath = configPath

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.VectorDB.Collection)
}

func TestLoaderExplicitPathMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	loader := NewLoader(nil)
	loader.ExplicitPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := loader.Load()
	assert.Error(t, err)
}

func TestLoaderRejectsInvalid(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("ontomap:\n  search_threshold: 2\n"), 0644))

	loader := NewLoader(nil)
	loader.ExplicitPath = configPath

	_, err := loader.Load()
	assert.Error(t, err)
}
