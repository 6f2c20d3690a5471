package config

// Config is the fxed configuration file. Every section is optional in a user
// file; missing values come from the embedded defaults.
type Config struct {
	Editor     EditorConfig     `yaml:"editor" toml:"editor"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
	Data       DataConfig       `yaml:"data" toml:"data"`
	Properties []PropertyConfig `yaml:"properties" toml:"properties"`
}

// EditorConfig tunes the interactive editor.
type EditorConfig struct {
	// Debounce is a Go duration string, e.g. "300ms".
	Debounce   string `yaml:"debounce" toml:"debounce"`
	MaxOptions int    `yaml:"max_options" toml:"max_options"`
	NoColor    bool   `yaml:"no_color" toml:"no_color"`
}

// LoggingConfig selects the log level and an optional rotating log file.
type LoggingConfig struct {
	Level      string `yaml:"level" toml:"level"`
	File       string `yaml:"file" toml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups"`
}

// DataConfig points at a data file whose columns back property options.
type DataConfig struct {
	File  string `yaml:"file" toml:"file"`
	Limit int    `yaml:"limit" toml:"limit"`
}

// Options source kinds for PropertyConfig.OptionsFrom.
const (
	OptionsFromNone = ""
	OptionsFromData = "data"
)

// PropertyConfig declares one filterable property.
type PropertyConfig struct {
	Name  string `yaml:"name" toml:"name"`
	Label string `yaml:"label" toml:"label"`
	Type  string `yaml:"type" toml:"type"`
	// Options is a fixed list of values.
	Options []OptionConfig `yaml:"options" toml:"options"`
	// OptionsFrom set to "data" loads options from Column (default Name) of the data file.
	OptionsFrom string           `yaml:"options_from" toml:"options_from"`
	Column      string           `yaml:"column" toml:"column"`
	Operators   []OperatorConfig `yaml:"operators" toml:"operators"`
}

// OptionConfig is one fixed option. A missing label shows the value.
type OptionConfig struct {
	Label string `yaml:"label" toml:"label"`
	Value any    `yaml:"value" toml:"value"`
}

// OperatorConfig overrides the operators of a property.
type OperatorConfig struct {
	Value    string `yaml:"value" toml:"value"`
	Label    string `yaml:"label" toml:"label"`
	Category string `yaml:"category" toml:"category"`
}
