// ==============================================================================================
// FILE: main.go
// ==============================================================================================
// PURPOSE: The dust command. With no arguments it opens the REPL; with one
//          path argument it evaluates the file; with more it prints usage and
//          exits with code 64.
// ==============================================================================================

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Bluewraith04/dust/config"
	"github.com/Bluewraith04/dust/diag"
	"github.com/Bluewraith04/dust/evaluator"
	"github.com/Bluewraith04/dust/logging"
	"github.com/Bluewraith04/dust/parser"
	"github.com/Bluewraith04/dust/repl"
)

// Version information set at build time.
var version = "0.1.0"

var errUsage = errors.New("usage")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(64)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "dust [script]",
		Short: "Dust - a small dynamically-typed scripting language",
		Long: `Dust is a small dynamically-typed scripting language with a
tree-walking interpreter. Run it with no arguments for a REPL session, or
give it a script path to evaluate.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				fmt.Fprintln(os.Stderr, "Usage: dust [script]")
				return errUsage
			}

			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				fmt.Fprintln(os.Stderr, diag.Format(err))
				return err
			}
			logging.SetDefault(cfg.LogFormat, cfg.LogLevel)

			if len(args) == 1 {
				return runFile(args[0])
			}

			slog.Debug("starting REPL session", "version", version)
			r := repl.New(os.Stdin, os.Stdout, os.Stderr, repl.Options{
				Prompt:             cfg.Prompt,
				ContinuationPrompt: cfg.ContinuationPrompt,
			})
			r.Start()
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "config file path")
	cmd.Flags().String("prompt", config.Default().Prompt, "REPL prompt")
	cmd.Flags().String("continuation-prompt", config.Default().ContinuationPrompt, "REPL continuation prompt")
	cmd.Flags().String("log-format", config.Default().LogFormat, "log format: text or json")
	cmd.Flags().String("log-level", config.Default().LogLevel, "log level: debug, info, warn or error")

	return cmd
}

// runFile reads a script and evaluates it. Diagnostics land on stderr; the
// process exits non-zero on any failure.
func runFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not read file %q: %v\n", path, err)
		return err
	}

	slog.Debug("evaluating script", "path", path, "bytes", len(data))

	program, err := parser.Parse(string(data))
	if err != nil {
		fmt.Fprintln(os.Stderr, diag.Format(err))
		return err
	}

	interp := evaluator.New()
	if err := interp.Run(program); err != nil {
		fmt.Fprintln(os.Stderr, diag.Format(err))
		return err
	}
	return nil
}
