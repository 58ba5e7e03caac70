package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mechbio/mechkb/config"
	"github.com/mechbio/mechkb/ontology"
	"github.com/mechbio/mechkb/statements"
	"github.com/mechbio/mechkb/storage"
)

// app holds the configuration and hierarchy set shared by the
// subcommands.
type app struct {
	cfg         *config.Config
	hierarchies *ontology.Hierarchies
}

// newApp configures logging, loads the layered configuration and
// builds the ontology hierarchies.
func newApp(configPath, logLevel string) (*app, error) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
		if err == nil {
			err = cfg.Validate()
		}
	} else {
		cfg, err = config.NewLoader(logger).Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	hs, err := ontology.Load(cfg.Ontology.Sources...)
	if err != nil {
		return nil, fmt.Errorf("load ontology: %w", err)
	}

	return &app{cfg: cfg, hierarchies: hs}, nil
}

// openStore connects to the configured NATS server and opens the
// corpus bucket. The returned closer drains the connection.
func (a *app) openStore(ctx context.Context) (storage.Store, func(), error) {
	if a.cfg.NATS.URL == "" {
		return nil, nil, fmt.Errorf("nats.url is not configured")
	}
	nc, err := nats.Connect(a.cfg.NATS.URL, nats.Name(appName))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}
	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("open JetStream: %w", err)
	}
	store, err := storage.NewKVStore(ctx, js, a.cfg.NATS.Bucket)
	if err != nil {
		nc.Close()
		return nil, nil, err
	}
	return store, nc.Close, nil
}

// readStatements loads a statement corpus from a JSON file.
func readStatements(path string) ([]statements.Statement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read statements: %w", err)
	}
	stmts, err := statements.UnmarshalList(data)
	if err != nil {
		return nil, err
	}
	return stmts, nil
}

// writeOutput writes to the given path, or stdout when empty.
func writeOutput(path, content string) error {
	if path == "" || path == "-" {
		_, err := fmt.Print(content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
