// Package cliconfig layers cjval's CLI configuration the way the teacher
// layers log and profile configuration: a [Flags] naming scheme, a
// [Config] holding resolved values, [Config.RegisterFlags] for pflag
// wiring. Unlike those simpler configs, cjval's settings may also come
// from a YAML file and environment variables, so [Load] merges
// defaults < config file < environment < flags with koanf before
// RegisterFlags values take final precedence.
package cliconfig

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for cjval configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	ConfigFile string
	Extensions string
	Verbose    string
	NoColor    string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{Flags: f}
}

// Config holds resolved cjval CLI configuration.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]; call [Load] afterward to layer in a config file
// and environment variables underneath whatever flags were actually set.
type Config struct {
	Flags Flags

	ConfigFile string
	Extensions []string
	Verbose    bool
	NoColor    bool
}

// NewConfig returns a new [Config] with default flag names and values.
func NewConfig() *Config {
	f := Flags{
		ConfigFile: "config",
		Extensions: "extension",
		Verbose:    "verbose",
		NoColor:    "no-color",
	}

	c := f.NewConfig()
	c.ConfigFile = ".cjval.yaml"

	return c
}

// RegisterFlags adds cjval's CLI flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.ConfigFile, c.Flags.ConfigFile, c.ConfigFile, "path to a .cjval.yaml configuration file")
	flags.StringArrayVarP(&c.Extensions, c.Flags.Extensions, "e", nil, "path to a local Extension file (repeatable)")
	flags.BoolVar(&c.Verbose, c.Flags.Verbose, false, "print each violation line under its check")
	flags.BoolVar(&c.NoColor, c.Flags.NoColor, false, "disable ANSI color in the report")
}

// Load layers koanf providers beneath the flag values already parsed into
// c: the named config file (if present; a missing file is not an error,
// since it is optional), then CJVAL_-prefixed environment variables, then
// re-applies flags on top so an explicitly passed flag always wins.
func Load(c *Config, flags *pflag.FlagSet) error {
	k := koanf.New(".")

	if err := k.Load(file.Provider(c.ConfigFile), yaml.Parser()); err != nil {
		if !isMissingFileErr(err) {
			return fmt.Errorf("loading %s: %w", c.ConfigFile, err)
		}
	}

	envProvider := env.Provider("CJVAL_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "CJVAL_"))
	})

	if err := k.Load(envProvider, nil); err != nil {
		return fmt.Errorf("loading CJVAL_ environment variables: %w", err)
	}

	if !flags.Changed(c.Flags.Verbose) && k.Exists("verbose") {
		c.Verbose = k.Bool("verbose")
	}

	if !flags.Changed(c.Flags.NoColor) && k.Exists("no_color") {
		c.NoColor = k.Bool("no_color")
	}

	if !flags.Changed(c.Flags.Extensions) && k.Exists("extension") {
		c.Extensions = k.Strings("extension")
	}

	return nil
}

func isMissingFileErr(err error) bool {
	return strings.Contains(err.Error(), "no such file") || strings.Contains(err.Error(), "cannot find the file")
}
