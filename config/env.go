package config

import "github.com/xyproto/env/v2"

// Environment variables that override file settings.
const (
	EnvVerbosity          = "FISHAST_VERBOSITY"
	EnvLogFile            = "FISHAST_LOG_FILE"
	EnvContinueAfterError = "FISHAST_CONTINUE_AFTER_ERROR"
	EnvIncludeComments    = "FISHAST_INCLUDE_COMMENTS"
	EnvShowExtraSemis     = "FISHAST_SHOW_EXTRA_SEMIS"
	EnvIndent             = "FISHAST_INDENT"
	EnvUIAddr             = "FISHAST_UI_ADDR"
)

type environment interface {
	Has(name string) bool
	Str(name string) string
	Int(name string, def int) int
	Bool(name string) bool
}

type processEnv struct{}

func (processEnv) Has(name string) bool         { return env.Has(name) }
func (processEnv) Str(name string) string       { return env.Str(name) }
func (processEnv) Int(name string, def int) int { return env.Int(name, def) }
func (processEnv) Bool(name string) bool        { return env.Bool(name) }

// ApplyEnv overrides c with the FISHAST_* variables that are set.
func (c *Config) ApplyEnv() {
	c.applyEnv(processEnv{})
}

func (c *Config) applyEnv(e environment) {
	if e.Has(EnvVerbosity) {
		c.Log.Verbosity = e.Int(EnvVerbosity, c.Log.Verbosity)
	}
	if e.Has(EnvLogFile) {
		c.Log.File = e.Str(EnvLogFile)
	}
	if e.Has(EnvContinueAfterError) {
		c.Parse.ContinueAfterError = e.Bool(EnvContinueAfterError)
	}
	if e.Has(EnvIncludeComments) {
		c.Parse.IncludeComments = e.Bool(EnvIncludeComments)
	}
	if e.Has(EnvShowExtraSemis) {
		c.Parse.ShowExtraSemis = e.Bool(EnvShowExtraSemis)
	}
	if e.Has(EnvIndent) {
		if indent := e.Int(EnvIndent, c.Format.Indent); indent >= 0 {
			c.Format.Indent = indent
		}
	}
	if e.Has(EnvUIAddr) {
		c.UI.Addr = e.Str(EnvUIAddr)
	}
}
