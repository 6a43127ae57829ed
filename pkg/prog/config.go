package prog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the content of a config file. Each field provides a default for
// the flag of the same name.
type Config struct {
	DB       string `yaml:"db"`
	Log      string `yaml:"log"`
	LogLevel string `yaml:"log-level"`
}

// LoadConfig reads a YAML config file. Unknown keys are rejected, and an empty
// file is the zero Config.
func LoadConfig(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()
	var cfg Config
	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	// An empty file decodes to io.EOF.
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Fills in flags not given on the command line from the config file.
func (f *Flags) merge(cfg Config, set map[string]bool) {
	fill := func(name string, dst *string, v string) {
		if !set[name] && v != "" {
			*dst = v
		}
	}
	fill("db", &f.DB, cfg.DB)
	fill("log", &f.Log, cfg.Log)
	fill("log-level", &f.LogLevel, cfg.LogLevel)
}
