package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FXED_"

// ErrNoProperties is returned when a configuration declares no properties.
var ErrNoProperties = errors.New("no properties configured")

//go:embed default_config.yaml
var defaultConfigYAML []byte

//go:embed schema.json
var schemaJSON []byte

// DefaultConfigYAML returns the embedded default configuration.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), defaultConfigYAML...)
}

// Overrides are the FXED_* environment variables. Zero values leave the
// file configuration untouched.
type Overrides struct {
	Debounce time.Duration `env:"DEBOUNCE"`
	LogLevel string        `env:"LOG_LEVEL"`
	LogFile  string        `env:"LOG_FILE"`
	NoColor  bool          `env:"NO_COLOR"`
	DataFile string        `env:"DATA_FILE"`
}

// Apply copies the set overrides onto cfg.
func (o Overrides) Apply(cfg *Config) {
	if o.Debounce > 0 {
		cfg.Editor.Debounce = o.Debounce.String()
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = strings.ToLower(o.LogLevel)
	}
	if o.LogFile != "" {
		cfg.Logging.File = o.LogFile
	}
	if o.NoColor {
		cfg.Editor.NoColor = true
	}
	if o.DataFile != "" {
		cfg.Data.File = o.DataFile
	}
}

// Load returns the embedded defaults merged with the file at path (when
// non-empty), the FXED_* environment and then overrides, validated.
func Load(path string, overrides ...func(*Config)) (*Config, error) {
	return load(path, env.Options{Prefix: EnvPrefix}, overrides...)
}

func load(path string, envOpts env.Options, overrides ...func(*Config)) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := Merge(cfg, data, formatOf(path)); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	var o Overrides
	if err := env.ParseWithOptions(&o, envOpts); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	o.Apply(cfg)
	for _, fn := range overrides {
		fn(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Default decodes the embedded defaults.
func Default() (*Config, error) {
	if len(defaultConfigYAML) == 0 {
		return nil, fmt.Errorf("embedded default config is empty")
	}
	var cfg Config
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		return nil, fmt.Errorf("decode default config: %w", err)
	}
	return &cfg, nil
}

// Format is a configuration file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

func formatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Merge validates data against the configuration schema and decodes it over
// cfg. Sections present in data replace the defaults field by field; a
// properties list replaces the default list.
func Merge(cfg *Config, data []byte, format Format) error {
	var doc any
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("decode toml: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("decode yaml: %w", err)
		}
	}
	if doc == nil {
		return nil
	}
	if err := validateDocument(doc); err != nil {
		return err
	}

	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode toml: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode yaml: %w", err)
		}
	}
	return nil
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("schema.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("schema.json")
	})
	return schema, schemaErr
}

// validateDocument checks a decoded YAML or TOML document against the
// embedded schema. The document is normalized through JSON first so that
// numbers and maps have the shapes the validator expects.
func validateDocument(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config is not representable as JSON: %w", err)
	}
	normalized, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("config is not representable as JSON: %w", err)
	}
	if err := s.Validate(normalized); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// DebounceDuration parses Editor.Debounce.
func (c *Config) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Editor.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid debounce %q: %w", c.Editor.Debounce, err)
	}
	return d, nil
}

var validLogLevels = map[string]int8{
	"debug": -1,
	"info":  0,
	"warn":  1,
	"error": 2,
}

// LogLevel returns the zap level of Logging.Level.
func (c *Config) LogLevel() int8 {
	return validLogLevels[strings.ToLower(c.Logging.Level)]
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if _, err := c.DebounceDuration(); err != nil {
		return err
	}
	if _, ok := validLogLevels[strings.ToLower(c.Logging.Level)]; !ok {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if len(c.Properties) == 0 && c.Data.File == "" {
		return ErrNoProperties
	}
	seen := make(map[string]bool, len(c.Properties))
	for i, p := range c.Properties {
		if p.Name == "" {
			return fmt.Errorf("properties[%d]: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("properties[%d]: duplicate property %q", i, p.Name)
		}
		seen[p.Name] = true
		switch p.OptionsFrom {
		case OptionsFromNone, OptionsFromData:
		default:
			return fmt.Errorf("property %q: unknown options_from %q", p.Name, p.OptionsFrom)
		}
		if p.OptionsFrom == OptionsFromData && len(p.Options) > 0 {
			return fmt.Errorf("property %q: options and options_from are exclusive", p.Name)
		}
	}
	return nil
}
