package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/atlaspack/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.atlaspack/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".atlaspack")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

// SaveAppConfig persists an AppConfig to the given path as TOML.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(config); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return f.Close()
}

// LoadAppConfig reads an AppConfig from the given path. Keys missing from
// the file keep their defaults, and unknown keys are an error.
// If the file does not exist, it returns DefaultAppConfig with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()

	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return model.AppConfig{}, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if config.DefaultStrategy != "" {
		if config.DefaultStrategy, err = model.ParseStrategy(string(config.DefaultStrategy)); err != nil {
			return model.AppConfig{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	if config.DefaultOrder, err = model.ParseOrder(string(config.DefaultOrder)); err != nil {
		return model.AppConfig{}, fmt.Errorf("%s: %w", path, err)
	}

	// Ensure RecentProjects is never nil
	if config.RecentProjects == nil {
		config.RecentProjects = []string{}
	}
	return config, nil
}
