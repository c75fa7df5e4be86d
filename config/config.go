// ==============================================================================================
// FILE: config/config.go
// ==============================================================================================
// PACKAGE: config
// PURPOSE: Runtime configuration for the dust driver: defaults, then an
//          optional yaml config file, then CLI flags.
// ==============================================================================================

package config

import (
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds the driver settings. None of these affect language semantics;
// they shape the session around it.
type Config struct {
	Prompt             string `koanf:"prompt"`
	ContinuationPrompt string `koanf:"continuation-prompt"`
	LogFormat          string `koanf:"log-format"`
	LogLevel           string `koanf:"log-level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Prompt:             ">>> ",
		ContinuationPrompt: "... ",
		LogFormat:          "text",
		LogLevel:           "info",
	}
}

// Load layers an optional yaml config file and a flag set over the defaults.
// Flags the user did not change never shadow file values.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, oops.Code("ConfigInvalid").With("path", path).Wrap(err)
		}
	}
	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return cfg, oops.Code("ConfigInvalid").Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, oops.Code("ConfigInvalid").Wrap(err)
	}
	return cfg, nil
}
