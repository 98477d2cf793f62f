package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadSnake loads the game configuration.
// Search order: customPath -> ~/.snake3d/configs/snake.yaml -> ./configs/snake.yaml -> embedded default.
// Keys missing from a file keep their default values.
func LoadSnake(customPath string) (SnakeConfig, error) {
	cfg := DefaultSnakeConfig()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, path := range []string{userConfigPath("snake.yaml"), filepath.Join("configs", "snake.yaml")} {
		if path == "" {
			continue
		}
		if loaded, ok := tryFile(path); ok {
			return loaded, nil
		}
	}

	embedded := DefaultSnakeConfig()
	if err := yaml.Unmarshal(defaultSnakeYAML, &embedded); err != nil {
		return DefaultSnakeConfig(), nil
	}
	return embedded, nil
}

// tryFile loads an optional config file. Unreadable, malformed or invalid
// files are skipped so the next candidate can be tried.
func tryFile(path string) (SnakeConfig, bool) {
	cfg := DefaultSnakeConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if cfg.Validate() != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to a user config file, or empty if the
// home directory is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snake3d", "configs", filename)
}

// WriteDefault writes the embedded default to path, creating parent
// directories. An existing file is left alone.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	if err := os.WriteFile(path, defaultSnakeYAML, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// UserPath returns ~/.snake3d/configs/snake.yaml, the file `config init`
// writes by default.
func UserPath() string {
	return userConfigPath("snake.yaml")
}

// Marshal renders cfg as YAML in the layout LoadSnake reads.
func Marshal(cfg SnakeConfig) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: marshal: %w", err)
	}
	return out, nil
}
