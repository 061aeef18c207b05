package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/hexdelve/internal/yamldoc"
)

// EnvConfig names a config file when no -config flag is given.
const EnvConfig = "HEXDELVE_CONFIG"

// Load builds the configuration: defaults, then the first config file found, then flags.
// The result is validated.
func Load() (*Config, error) {
	cfg := Default()

	if path := resolveConfigPath(); path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// resolveConfigPath picks the -config flag, then $HEXDELVE_CONFIG, then a search.
func resolveConfigPath() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return findConfigFile()
}

// findConfigFile returns the first existing candidate in the working directory, then in
// ConfigDir. Compressed variants are tried after plain ones.
func findConfigFile() string {
	dirs := []string{".", ConfigDir()}
	names := []string{"hexdelve.yaml", "config.yaml"}

	for _, dir := range dirs {
		for _, name := range names {
			for _, candidate := range []string{name, name + yamldoc.CompressedExt} {
				path := filepath.Join(dir, candidate)
				if info, err := os.Stat(path); err == nil && !info.IsDir() {
					return path
				}
			}
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Hexdelve")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Hexdelve")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hexdelve")
	}
	return filepath.Join(home, ".config", "hexdelve")
}

// loadFromFile merges a YAML file over cfg. Keys absent from the file keep their values.
func loadFromFile(cfg *Config, path string) error {
	data, err := yamldoc.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
