package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"ref-corpus/internal/chunker"
	"ref-corpus/internal/config"
	"ref-corpus/internal/fetch"
	"ref-corpus/internal/logger"
	"ref-corpus/internal/tokenizer"
	"ref-corpus/internal/unpaywall"
)

// Deps bundles common runtime dependencies for commands.
type Deps struct {
	Config config.Config
	Log    *slog.Logger
	RunID  uuid.UUID
}

// ChunkDeps adds the tokenizer-backed chunker.
type ChunkDeps struct {
	Deps
	Chunker *chunker.Chunker
}

// FetchDeps adds the open-access lookup and download pipeline.
type FetchDeps struct {
	Deps
	Fetcher *fetch.Fetcher
}

// Build loads an optional .env file, config, and the logger. Every log line
// carries the command name and a fresh run id.
func Build(command string) (Deps, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Deps{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	cfg := config.Load()
	runID := uuid.New()
	log := logger.New(cfg.LogLevel).With("command", command, "run_id", runID.String())
	return Deps{Config: cfg, Log: log, RunID: runID}, nil
}

// BuildChunk validates the chunking section before loading the tokenizer, so a
// bad window configuration fails without touching the network or the input.
func BuildChunk() (ChunkDeps, error) {
	deps, err := Build("chunk")
	if err != nil {
		return ChunkDeps{}, err
	}
	opts, err := deps.Config.Chunk.Options()
	if err != nil {
		return ChunkDeps{}, err
	}
	tok, err := tokenizer.NewTiktoken(deps.Config.TokenizerEncoding)
	if err != nil {
		return ChunkDeps{}, fmt.Errorf("failed to initialize tokenizer: %w", err)
	}
	deps.Log.Info("using tiktoken tokenizer", "encoding", tok.Encoding())

	c, err := chunker.New(tok, opts, chunker.ErrorPolicy(deps.Config.Chunk.OnAdapterError), deps.Log)
	if err != nil {
		return ChunkDeps{}, err
	}
	return ChunkDeps{Deps: deps, Chunker: c}, nil
}

func BuildFetch() (FetchDeps, error) {
	deps, err := Build("fetch")
	if err != nil {
		return FetchDeps{}, err
	}
	cfg := deps.Config.Fetch
	if err := config.Validate(cfg); err != nil {
		return FetchDeps{}, err
	}
	lookup, err := unpaywall.NewClient(cfg.UnpaywallURL, cfg.UnpaywallEmail, cfg.LookupTimeout)
	if err != nil {
		return FetchDeps{}, fmt.Errorf("failed to initialize unpaywall client: %w", err)
	}
	downloader := fetch.NewDownloader(cfg.DownloadTimeout, cfg.UserAgent, cfg.MinPDFBytes)
	f := fetch.New(lookup, downloader, fetch.Options{
		OutputDir:   cfg.OutputDir,
		ExtractText: cfg.ExtractText,
		Attempts:    cfg.Attempts,
		RetryDelay:  cfg.RetryDelay,
		Delay:       cfg.Delay,
	}, deps.Log)
	return FetchDeps{Deps: deps, Fetcher: f}, nil
}
