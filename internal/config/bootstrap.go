package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/config.yml
var defaultConfig []byte

// EnsureUserConfig writes the bundled default config to path on first run.
func EnsureUserConfig(path string) (created bool, err error) {
	_, err = os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, err
		}
	}
	if err := os.WriteFile(path, defaultConfig, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

// Default returns the bundled config, normalized.
func Default() Config {
	cfg, _ := bundled()
	out, _ := NormalizeAndValidate(cfg)
	return out
}

func bundled() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfig, &cfg); err != nil {
		return Config{}, fmt.Errorf("bundled config: %w", err)
	}
	return cfg, nil
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}
