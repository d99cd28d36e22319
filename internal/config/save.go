package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const fileHeader = "# Rock Blast configuration. CLI flags override these values.\n"

// Marshal encodes the config as YAML with a short header comment.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(fileHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalTOML encodes the config as TOML with the same header comment.
func (c *Config) MarshalTOML() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, err
	}
	return append([]byte(fileHeader), data...), nil
}

// SaveTo writes the config to a specific path, creating parent directories.
// A .toml extension selects TOML, anything else YAML. An empty path means
// config.yaml in ConfigDir.
func (c *Config) SaveTo(path string) error {
	if path == "" {
		path = filepath.Join(ConfigDir(), "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	marshal := c.Marshal
	if isTOML(path) {
		marshal = c.MarshalTOML
	}
	data, err := marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
