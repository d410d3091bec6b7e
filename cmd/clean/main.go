package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"ref-corpus/internal/app"
	"ref-corpus/internal/cleaner"
	"ref-corpus/internal/config"
	"ref-corpus/internal/dataset"
)

func main() {
	deps, err := app.Build("clean")
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	if err := run(context.Background(), deps); err != nil {
		deps.Log.Error("cleaning failed", "err", err)
		os.Exit(1)
	}
}

func run(_ context.Context, deps app.Deps) error {
	cfg := deps.Config.Clean
	if err := config.Validate(cfg); err != nil {
		return err
	}

	in, err := os.Open(cfg.Input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	items, err := dataset.ReadArray[dataset.Item](in)
	in.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", cfg.Input, err)
	}

	records, stats := cleaner.Clean(items, cfg.MinChars)

	out, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	w := dataset.NewWriter(out)
	for _, rec := range records {
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

	deps.Log.Info("cleaned dataset saved",
		"output", cfg.Output,
		"input_records", stats.Input,
		"kept", stats.Kept,
		"too_short", stats.TooShort,
		"bad_label", stats.BadLabel,
		"min_chars", cfg.MinChars,
	)
	return nil
}
