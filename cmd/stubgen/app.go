package main

import (
	"io"
	"log/slog"

	"stubgen/internal/analyze"
	"stubgen/internal/buffer"
	"stubgen/internal/config"
	"stubgen/internal/operation"
)

type rootOptions struct {
	configPath string
	verbose    bool
	noColor    bool
}

// app is the wiring shared by every command of one invocation.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *buffer.Registry
	engine   *operation.Engine
}

func newApp(opts *rootOptions, stderr io.Writer) (*app, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}

	if opts.verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	registry := buffer.NewRegistry(buffer.FileStorage{})

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		engine:   operation.NewEngine(registry, provider(cfg, registry), operation.WithLogger(logger)),
	}, nil
}

func provider(cfg *config.Config, registry *buffer.Registry) analyze.Provider {
	if cfg.Analysis.Provider == config.ProviderPackages {
		return analyze.PackagesProvider{}
	}

	return analyze.SourceProvider{PkgPath: cfg.Analysis.PkgPath, Read: registry.Source}
}
