package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings for the bookmark store and its API
// client.
type Config struct {
	StoragePath    string        `yaml:"storage_path"`
	APIBaseURL     string        `yaml:"api_base_url"`
	TranslationIDs []int         `yaml:"translation_ids"`
	WordLanguage   string        `yaml:"word_language"`
	Debounce       time.Duration `yaml:"debounce"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		StoragePath:    filepath.Join(home, ".quranmarks", "store.db"),
		APIBaseURL:     "https://api.quran.com/api/v4",
		TranslationIDs: []int{131},
		WordLanguage:   "en",
		Debounce:       300 * time.Millisecond,
	}
}

// Load builds the configuration: defaults, then the YAML file at path (a
// missing file is fine), then environment variables. A .env file in the
// working directory is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Defaults apply.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("QURANMARKS_STORAGE_PATH"); v != "" {
		c.StoragePath = v
	}
	if v := os.Getenv("QURANMARKS_API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("QURANMARKS_TRANSLATIONS"); v != "" {
		var ids []int
		for _, part := range strings.Split(v, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err == nil {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			c.TranslationIDs = ids
		}
	}
	if v := os.Getenv("QURANMARKS_WORD_LANGUAGE"); v != "" {
		c.WordLanguage = v
	}
	if v := os.Getenv("QURANMARKS_DEBOUNCE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			c.Debounce = time.Duration(ms) * time.Millisecond
		}
	}
}
