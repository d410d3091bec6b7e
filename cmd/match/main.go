package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"ref-corpus/internal/app"
	"ref-corpus/internal/config"
	"ref-corpus/internal/doi"
)

func main() {
	deps, err := app.Build("match")
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	if err := run(context.Background(), deps); err != nil {
		deps.Log.Error("matching failed", "err", err)
		os.Exit(1)
	}
}

func run(_ context.Context, deps app.Deps) error {
	cfg := deps.Config.Match
	if err := config.Validate(cfg); err != nil {
		return err
	}

	f, err := os.Open(cfg.CSVPath)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	rows, err := doi.ReadRows(f, cfg.DOIColumn, "")
	f.Close()
	if err != nil {
		return fmt.Errorf("read %s: %w", cfg.CSVPath, err)
	}
	dois := make([]string, len(rows))
	for i, r := range rows {
		dois[i] = r.DOI
	}

	entries, err := os.ReadDir(cfg.PDFDir)
	if err != nil {
		return fmt.Errorf("list pdf dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, e.Name())
		}
	}

	var (
		matches   []doi.Match
		unmatched []string
	)
	if cfg.Mode == "fuzzy" {
		matches, unmatched = doi.MatchFuzzy(files, dois)
	} else {
		matches = doi.MatchExact(files, dois)
	}

	if err := writeFile(cfg.Output, func(w io.Writer) error { return doi.WriteMatches(w, matches) }); err != nil {
		return err
	}
	deps.Log.Info("matched pdfs to dois",
		"mode", cfg.Mode,
		"dois", len(dois),
		"pdfs", len(files),
		"matched", len(matches),
		"output", cfg.Output,
	)

	if cfg.Mode == "fuzzy" && cfg.UnmatchedPath != "" {
		if err := writeFile(cfg.UnmatchedPath, func(w io.Writer) error { return doi.WriteUnmatched(w, unmatched) }); err != nil {
			return err
		}
		deps.Log.Info("unmatched pdfs saved", "unmatched", len(unmatched), "output", cfg.UnmatchedPath)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
