package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file keeps defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default().APIBaseURL, cfg.APIBaseURL)
		assert.Equal(t, 300*time.Millisecond, cfg.Debounce)
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api_base_url: http://localhost:9999\ntranslation_ids: [20, 131]\n"), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9999", cfg.APIBaseURL)
		assert.Equal(t, []int{20, 131}, cfg.TranslationIDs)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("QURANMARKS_API_BASE_URL", "http://env:1234")
		t.Setenv("QURANMARKS_TRANSLATIONS", "85, 95")
		t.Setenv("QURANMARKS_DEBOUNCE_MS", "50")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "http://env:1234", cfg.APIBaseURL)
		assert.Equal(t, []int{85, 95}, cfg.TranslationIDs)
		assert.Equal(t, 50*time.Millisecond, cfg.Debounce)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(":\n\t:"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}
