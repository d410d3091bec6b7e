package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ref-corpus/internal/app"
	"ref-corpus/internal/config"
	"ref-corpus/internal/dataset"
)

func main() {
	deps, err := app.Build("count")
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	if err := run(context.Background(), deps); err != nil {
		deps.Log.Error("count failed", "err", err)
		os.Exit(1)
	}
}

func run(_ context.Context, deps app.Deps) error {
	cfg := deps.Config.Count
	if err := config.Validate(cfg); err != nil {
		return err
	}

	source, counts, err := countLabels(cfg.Input)
	if err != nil {
		return err
	}
	for _, lc := range counts.Sorted() {
		deps.Log.Info("label count", "label", lc.Label, "count", lc.Count)
	}
	deps.Log.Info("label distribution",
		"input", cfg.Input,
		"source", source,
		"total", counts.Total(),
		"counts", counts.String(),
	)
	return nil
}

// countLabels reads path directly, or its first dataset entry when it is a zip.
func countLabels(path string) (string, dataset.LabelCounts, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		name, counts, err := dataset.CountLabelsInZip(path)
		if err != nil {
			return name, nil, fmt.Errorf("count %s: %w", path, err)
		}
		return name, counts, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	counts, err := dataset.CountLabels(f)
	if err != nil {
		return path, nil, fmt.Errorf("count %s: %w", path, err)
	}
	return path, counts, nil
}
