package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// EnsureUserConfig copies the shipped default config into the data dir the
// first time the engine runs, and returns the user config path.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	src, err := os.Open(defaultPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return userPath, nil
}

// OverlayEnv lets credentials come from the environment without living in
// the config file. Empty env vars are ignored.
func OverlayEnv(cfg *Config) {
	if v := os.Getenv("SOURCING_PEOPLE_API_KEY"); v != "" {
		cfg.Sources.PeopleAPI.APIKey = v
	}
	if v := os.Getenv("SOURCING_SERPAPI_KEY"); v != "" {
		cfg.Sources.WebSearch.SerpAPIKey = v
	}
	if v := os.Getenv("SOURCING_GEMINI_API_KEY"); v != "" {
		cfg.Outreach.GeminiAPIKey = v
	}
}
