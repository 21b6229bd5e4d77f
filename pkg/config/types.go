package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/getmockd/ewsparse/pkg/ews"
	"github.com/getmockd/ewsparse/pkg/logging"
)

// Output formats for decoded responses.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config is the ewsparse configuration.
type Config struct {
	Logging    LoggingConfig     `json:"logging" yaml:"logging" toml:"logging"`
	Namespaces map[string]string `json:"namespaces,omitempty" yaml:"namespaces,omitempty" toml:"namespaces"`
	Output     OutputConfig      `json:"output" yaml:"output" toml:"output"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty" toml:"level"`
	Format string `json:"format,omitempty" yaml:"format,omitempty" toml:"format"`
	File   string `json:"file,omitempty" yaml:"file,omitempty" toml:"file"`
}

// OutputConfig configures how decoded responses are printed.
type OutputConfig struct {
	Format string `json:"format,omitempty" yaml:"format,omitempty" toml:"format"`
	Pretty bool   `json:"pretty" yaml:"pretty" toml:"pretty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "warn", Format: string(logging.FormatText)},
		Output:  OutputConfig{Format: OutputJSON, Pretty: true},
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Logging.Format) {
	case "", string(logging.FormatText), string(logging.FormatJSON):
	default:
		errs = append(errs, fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format))
	}

	switch strings.ToLower(c.Output.Format) {
	case "", OutputJSON, OutputYAML:
	default:
		errs = append(errs, fmt.Errorf("output.format: unsupported value %q", c.Output.Format))
	}

	for prefix, uri := range c.Namespaces {
		if prefix == "" || strings.ContainsAny(prefix, ":/[]") {
			errs = append(errs, fmt.Errorf("namespaces: invalid prefix %q", prefix))
			continue
		}
		if u, err := url.Parse(uri); err != nil || uri == "" || u.Scheme == "" {
			errs = append(errs, fmt.Errorf("namespaces.%s: invalid URI %q", prefix, uri))
		}
	}

	return errors.Join(errs...)
}

// NamespaceTable returns the EWS namespace table with the configured
// overrides applied.
func (c *Config) NamespaceTable() ews.Namespaces {
	ns := ews.DefaultNamespaces()
	for prefix, uri := range c.Namespaces {
		ns = ns.With(prefix, uri)
	}
	return ns
}

// LoggingConfig converts the logging section into a logging.Config.
func (c *Config) LoggingConfig() logging.Config {
	cfg := logging.DefaultConfig()
	if c.Logging.Level != "" {
		cfg.Level = logging.ParseLevel(c.Logging.Level)
	}
	if c.Logging.Format != "" {
		cfg.Format = logging.ParseFormat(c.Logging.Format)
	}
	return cfg
}
