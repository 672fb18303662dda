package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"libdb.so/simonglow"
)

var (
	config  = "simonglow.toml"
	verbose = false
	simul   = false
	seed    uint64
)

func init() {
	pflag.StringVarP(&config, "config", "c", config, "configuration file (.toml, .yaml or .yml)")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
	pflag.BoolVar(&simul, "sim", simul, "simulate the robot on the console, reading samples from stdin")
	pflag.Uint64Var(&seed, "seed", seed, "pattern seed, overrides the configuration (0 keeps it)")
}

func main() {
	pflag.Parse()

	logLevel := log.WarnLevel
	if verbose {
		logLevel = log.DebugLevel
	}

	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           logLevel,
		ReportTimestamp: true,
		Prefix:          "simonglow",
	})
	slog.SetDefault(slog.New(handler))

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := readConfig()
	if err != nil {
		return err
	}

	if simul {
		cfg.Backend = simonglow.SimBackend
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	d, err := simonglow.NewDaemon(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	if err := d.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("daemon failed: %w", err)
	}

	return nil
}

// readConfig reads the configuration file. A missing default file is not an
// error; the built-in defaults are used instead.
func readConfig() (*simonglow.Config, error) {
	cfg, err := simonglow.ReadConfig(config)
	if err == nil {
		return cfg, nil
	}

	if errors.Is(err, os.ErrNotExist) && !pflag.CommandLine.Changed("config") {
		slog.Debug("no configuration file, using defaults", "path", config)
		return simonglow.DefaultConfig(), nil
	}

	return nil, fmt.Errorf("failed to read config: %w", err)
}
