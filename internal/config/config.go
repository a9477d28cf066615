package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from synapse.yml.
type ProjectConfig struct {
	DatabasePath string         `yaml:"databasePath,omitempty"`
	RegistryRoot string         `yaml:"registryRoot,omitempty"`
	DefaultLimit int            `yaml:"defaultLimit,omitempty"`
	DefaultDepth int            `yaml:"defaultDepth,omitempty"`
	Embedder     EmbedderConfig `yaml:"embedder,omitempty"`
	ExcludeDirs  []string       `yaml:"excludeDirs,omitempty"`
	Verbose      bool           `yaml:"verbose,omitempty"`
}

// EmbedderConfig selects and configures the embedding backend.
// Kind is "http", "openai", or empty to disable semantic search.
type EmbedderConfig struct {
	Kind     string `yaml:"kind,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"apiKey,omitempty"`
}

// Load attempts to read synapse.yml or synapse.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"synapse.yml", "synapse.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}
