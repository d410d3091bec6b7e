package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"ref-corpus/internal/app"
	"ref-corpus/internal/doi"
	"ref-corpus/internal/fetch"
)

func main() {
	deps, err := app.BuildFetch()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, deps)
	stop()
	if err != nil {
		deps.Log.Error("fetch failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, deps app.FetchDeps) error {
	cfg := deps.Config.Fetch

	f, err := os.Open(cfg.CSVPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	rows, err := doi.ReadRows(f, cfg.DOIColumn, cfg.LabelColumn)
	f.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", cfg.CSVPath, err)
	}
	deps.Log.Info("fetching open access copies", "dois", len(rows), "output_dir", cfg.OutputDir)

	// The log is written even when the run is interrupted.
	entries, runErr := deps.Fetcher.Run(ctx, rows)
	if err := writeLog(cfg.LogPath, entries); err != nil && runErr == nil {
		runErr = err
	}

	summary := fetch.Summary(entries)
	deps.Log.Info("fetch finished",
		"success", summary[fetch.StatusSuccess],
		"skipped", summary[fetch.StatusSkipped],
		"failed", summary[fetch.StatusFailed],
		"log", cfg.LogPath,
	)
	return runErr
}

func writeLog(path string, entries []fetch.LogEntry) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create log: %w", err)
	}
	if err := fetch.WriteLog(out, entries); err != nil {
		out.Close()
		return fmt.Errorf("write log: %w", err)
	}
	return out.Close()
}
