package loader

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the loading environment shared, read-only, by every context a
// Loader creates. Only Context differs between them.
type Config struct {
	// Context names the namespace. Each isolated context overrides it with its id.
	Context string `yaml:"context"`
	// Map aliases a requested name to the name it resolves as.
	Map map[string]string `yaml:"map"`
}

// LoadConfig decodes a YAML loader configuration. Empty input yields a zero Config.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	err := decoder.Decode(&cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to decode loader config: %w", err)
	}

	return cfg, nil
}

// LoadConfigFile reads a YAML loader configuration from path.
func LoadConfigFile(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to open loader config: %w", err)
	}
	defer file.Close()

	return LoadConfig(file)
}

// Canonical follows aliases from name to the name it resolves as.
func (c Config) Canonical(name string) string {
	for range len(c.Map) {
		target, ok := c.Map[name]
		if !ok || target == name {
			break
		}

		name = target
	}

	return name
}

// forContext returns a copy of c for the context named id.
func (c Config) forContext(id string) Config {
	return Config{
		Context: id,
		Map:     maps.Clone(c.Map),
	}
}
