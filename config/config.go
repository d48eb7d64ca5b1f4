// Package config loads fishast settings from a TOML or YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dhamidi/fishast/fish/parser"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no file is given.
const DefaultFile = "fishast.toml"

// Format is the syntax of a configuration file.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

type Config struct {
	Parse  ParseConfig  `toml:"parse" yaml:"parse"`
	Format FormatConfig `toml:"format" yaml:"format"`
	Log    LogConfig    `toml:"log" yaml:"log"`
	UI     UIConfig     `toml:"ui" yaml:"ui"`
}

// ParseConfig mirrors parser.ParseFlags.
type ParseConfig struct {
	ContinueAfterError     bool `toml:"continue_after_error" yaml:"continue_after_error"`
	IncludeComments        bool `toml:"include_comments" yaml:"include_comments"`
	AcceptIncompleteTokens bool `toml:"accept_incomplete_tokens" yaml:"accept_incomplete_tokens"`
	LeaveUnterminated      bool `toml:"leave_unterminated" yaml:"leave_unterminated"`
	ShowBlankLines         bool `toml:"show_blank_lines" yaml:"show_blank_lines"`
	ShowExtraSemis         bool `toml:"show_extra_semis" yaml:"show_extra_semis"`
}

type FormatConfig struct {
	// Indent is the number of spaces per nesting level.
	Indent int `toml:"indent" yaml:"indent"`
}

type LogConfig struct {
	Verbosity int    `toml:"verbosity" yaml:"verbosity"`
	File      string `toml:"file" yaml:"file"`
}

type UIConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
}

func Default() *Config {
	return &Config{
		Format: FormatConfig{Indent: 4},
		UI:     UIConfig{Addr: "localhost:8080"},
	}
}

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Load reads path, choosing the format by extension. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := LoadFromString(string(content), detectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromString parses content on top of the defaults.
func LoadFromString(content string, format Format) (*Config, error) {
	cfg := Default()
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(content, cfg); err != nil {
			return nil, fmt.Errorf("parse toml config: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}
	if cfg.Format.Indent < 0 {
		return nil, fmt.Errorf("format.indent must not be negative, got %d", cfg.Format.Indent)
	}
	return cfg, nil
}

// ParseFlags returns the parser flags selected by c.
func (c *Config) ParseFlags() parser.ParseFlags {
	var flags parser.ParseFlags
	set := func(on bool, flag parser.ParseFlags) {
		if on {
			flags |= flag
		}
	}
	set(c.Parse.ContinueAfterError, parser.ContinueAfterError)
	set(c.Parse.IncludeComments, parser.IncludeComments)
	set(c.Parse.AcceptIncompleteTokens, parser.AcceptIncompleteTokens)
	set(c.Parse.LeaveUnterminated, parser.LeaveUnterminated)
	set(c.Parse.ShowBlankLines, parser.ShowBlankLines)
	set(c.Parse.ShowExtraSemis, parser.ShowExtraSemis)
	return flags
}

// LogFile returns the log file path for commonlog.Configure, or nil for
// stderr.
func (c *Config) LogFile() *string {
	if c.Log.File == "" {
		return nil
	}
	path := c.Log.File
	return &path
}
