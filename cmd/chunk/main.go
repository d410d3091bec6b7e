package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"ref-corpus/internal/app"
	"ref-corpus/internal/chunker"
)

func main() {
	deps, err := app.BuildChunk()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	opts := deps.Chunker.Options()
	deps.Log.Info("chunker starting",
		"input", deps.Config.Chunk.Input,
		"output", deps.Config.Chunk.Output,
		"window_size", opts.WindowSize,
		"stride", opts.Stride,
		"min_len", opts.MinLen,
		"short_document_policy", opts.Policy,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, deps)
	stop()
	if err != nil {
		deps.Log.Error("chunking failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, deps app.ChunkDeps) error {
	cfg := deps.Config.Chunk
	in, err := os.Open(cfg.Input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}

	stats, runErr := deps.Chunker.Run(ctx, in, out)
	if err := out.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close output: %w", err)
	}
	logSummary(deps.Log, cfg.Output, stats)
	return runErr
}

// logSummary reports how many chunks each document produced.
func logSummary(log *slog.Logger, output string, stats chunker.Stats) {
	log.Info("saved chunked examples", "records", stats.Records, "output", output)

	dist := stats.Distribution
	if dist == nil {
		return
	}
	for _, b := range dist.Buckets() {
		log.Info("chunk distribution", "chunks", b.Chunks, "documents", b.Documents)
	}
	log.Info("chunking summary",
		"documents", dist.Total(),
		"single_chunk", dist.Single(),
		"multi_chunk", dist.Multi(),
		"skipped", dist.Skipped(),
		"empty", stats.Empty,
		"failed", stats.Failed,
		"truncated_tails", stats.Truncated,
	)
}
