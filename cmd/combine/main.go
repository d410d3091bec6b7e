package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"ref-corpus/internal/app"
	"ref-corpus/internal/config"
	"ref-corpus/internal/dataset"
	"ref-corpus/internal/doi"
)

func main() {
	deps, err := app.Build("combine")
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	if err := run(context.Background(), deps); err != nil {
		deps.Log.Error("combine failed", "err", err)
		os.Exit(1)
	}
}

func run(_ context.Context, deps app.Deps) error {
	cfg := deps.Config.Combine
	if err := config.Validate(cfg); err != nil {
		return err
	}

	f, err := os.Open(cfg.CSVPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	rows, err := doi.ReadRows(f, cfg.DOIColumn, cfg.LabelColumn)
	f.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", cfg.CSVPath, err)
	}

	res, err := dataset.Combine(rows, cfg.TextsDir, deps.Log)
	if err != nil {
		return err
	}

	out, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	w := dataset.NewWriter(out)
	for _, rec := range res.Records {
		if err := w.Write(rec); err != nil {
			out.Close()
			return fmt.Errorf("write output: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	deps.Log.Info("training set written",
		"output", cfg.Output,
		"records", len(res.Records),
		"missing", len(res.Missing),
		"empty", len(res.Empty),
	)
	return nil
}
