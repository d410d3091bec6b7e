package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"ref-corpus/internal/app"
	"ref-corpus/internal/config"
	"ref-corpus/internal/dataset"
)

func main() {
	deps, err := app.Build("merge")
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	if err := run(context.Background(), deps); err != nil {
		deps.Log.Error("merge failed", "err", err)
		os.Exit(1)
	}
}

func run(_ context.Context, deps app.Deps) error {
	cfg := deps.Config.Merge
	if err := config.Validate(cfg); err != nil {
		return err
	}

	oldItems, err := readItems(cfg.Old)
	if err != nil {
		return err
	}
	newItems, err := readItems(cfg.New)
	if err != nil {
		return err
	}
	merged := dataset.Merge(oldItems, newItems)

	out, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := dataset.WriteArray(out, merged); err != nil {
		out.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	deps.Log.Info("merged datasets",
		"old", len(oldItems),
		"new", len(newItems),
		"merged", len(merged),
		"duplicates", len(oldItems)+len(newItems)-len(merged),
		"output", cfg.Output,
	)
	return nil
}

func readItems(path string) ([]dataset.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	items, err := dataset.ReadArray[dataset.Item](f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}
