package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries what every subcommand needs. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	stdout, stderr io.Writer
	getenv         func(string) string

	configPath string
	logLevel   string

	cfg Config
	log *zap.Logger
}

func newRootCmd(stdout, stderr io.Writer, getenv func(string) string) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, getenv: getenv}

	root := &cobra.Command{
		Use:   "astra",
		Short: "Stream and decode Astra chat answers",
		Long: `astra talks to an Astra server and renders its streamed answers.

Examples:
  astra chat "What is Shabbat?"                   # Stream an answer
  astra chat --endpoint blocks --out doc.json "Explain kiddush"
  astra chat --endpoint study --session s1 --panel left "Translate this"
  astra replay 'captures/**/*.ndjson' --chunk 7   # Decode recorded streams`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath, "Path to YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	root.AddCommand(newChatCmd(a), newReplayCmd(a))
	return root
}

func (a *app) setup() error {
	cfg, err := loadConfig(a.configPath, a.configPath != defaultConfigPath)
	if err != nil {
		return err
	}
	if tok := a.getenv("ASTRA_TOKEN"); tok != "" {
		cfg.Token = tok
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	log, err := newLogger(a.stderr, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}
