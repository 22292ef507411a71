package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/domain"
)

// setup resolves the config file and logger shared by every command.
// The --log-level flag wins over the config file when set.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, err
	}

	level := cfg.LogLevel
	if flagLevel, _ := cmd.Flags().GetString("log-level"); flagLevel != "" {
		level = flagLevel
	}
	logger := logging.New(logging.ParseLevel(level))

	return cfg, logger, nil
}

// newEngine builds an engine from the resolved configuration.
func newEngine(cfg config.Config, logger *slog.Logger, opts ...arbor.Option) *arbor.Engine {
	policy, _ := domain.ParseOrphanPolicy(cfg.OrphanPolicy)
	base := []arbor.Option{
		arbor.WithLogger(logger),
		arbor.WithOrphanPolicy(policy),
	}
	return arbor.New(append(base, opts...)...)
}

// openFacts opens the fact log argument, with "-" meaning stdin.
func openFacts(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}
