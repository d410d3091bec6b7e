package chunker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"ref-corpus/internal/dataset"
	"ref-corpus/internal/logger"
	"ref-corpus/internal/tokenizer"
)

// ErrorPolicy decides what a tokenizer failure does to the run.
type ErrorPolicy string

const (
	// FailFast aborts the run on the first adapter error.
	FailFast ErrorPolicy = "fail"
	// SkipDocument logs the failure, counts the document under bucket 0 and moves on.
	SkipDocument ErrorPolicy = "skip"
)

// Stats summarises a chunking run.
type Stats struct {
	Documents    int
	Records      int
	Empty        int
	Failed       int
	Truncated    int
	Distribution *Distribution
}

// Chunker windows labelled documents into model-sized chunk records.
type Chunker struct {
	opts    Options
	tok     tokenizer.Tokenizer
	onError ErrorPolicy
	log     *slog.Logger
}

// New validates opts up front so a bad configuration fails before any input is read.
func New(tok tokenizer.Tokenizer, opts Options, onError ErrorPolicy, log *slog.Logger) (*Chunker, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	switch onError {
	case "":
		onError = FailFast
	case FailFast, SkipDocument:
	default:
		return nil, fmt.Errorf("%w: unknown adapter error policy %q", ErrInvalidConfig, onError)
	}
	if tok == nil {
		return nil, fmt.Errorf("%w: tokenizer is required", ErrInvalidConfig)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Chunker{opts: opts, tok: tok, onError: onError, log: log}, nil
}

// Options returns the validated windowing options.
func (c *Chunker) Options() Options {
	return c.opts
}

// Chunk encodes one document, windows it and decodes the windows. The second
// return value is the number of trailing tokens lost to the minimum-length rule.
func (c *Chunker) Chunk(doc dataset.Document) ([]dataset.Record, int, error) {
	ids, err := c.tok.Encode(doc.Text)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: encode: %v", ErrAdapter, err)
	}
	if len(ids) == 0 {
		return nil, 0, ErrEmptyDocument
	}
	windows, lost := split(ids, c.opts)
	records, err := ToRecords(doc, windows, c.tok.Decode)
	if err != nil {
		return nil, lost, err
	}
	return records, lost, nil
}

// Run reads JSONL documents from r and writes one JSONL record per retained window
// to w, in document order then window order. Records are written as soon as a
// document is done, so a failed run leaves a valid prefix behind.
func (c *Chunker) Run(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	stats := Stats{Distribution: NewDistribution()}
	reader := dataset.NewReader[dataset.Document](r)
	out := dataset.NewWriter(w)

	finish := func(err error) (Stats, error) {
		stats.Records = out.Count()
		if flushErr := out.Flush(); flushErr != nil && err == nil {
			err = flushErr
		}
		return stats, err
	}

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		doc, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return finish(nil)
		}
		if err != nil {
			return finish(fmt.Errorf("read input: %w", err))
		}
		stats.Documents++

		log := c.log.With("document", index, "label", doc.Label.Canonical(), "numeric_label", doc.Label.IsNumeric())
		records, lost, err := c.Chunk(doc)
		switch {
		case errors.Is(err, ErrEmptyDocument):
			log.Warn("skipping document without tokens")
			stats.Empty++
			stats.Distribution.Observe(0)
			continue
		case errors.Is(err, ErrAdapter) && c.onError == SkipDocument:
			log.Error("skipping document after tokenizer failure", "err", err)
			stats.Failed++
			stats.Distribution.Observe(0)
			continue
		case err != nil:
			return finish(fmt.Errorf("document %d: %w", index, err))
		}

		if lost > 0 {
			log.Warn("dropped trailing tokens below minimum window length",
				"lost_tokens", lost, "min_len", c.opts.MinLen, "chunks", len(records))
			stats.Truncated++
		}
		for _, rec := range records {
			if err := out.Write(rec); err != nil {
				return finish(fmt.Errorf("write output: %w", err))
			}
		}
		stats.Distribution.Observe(len(records))
		log.Debug("document chunked", "chunks", len(records))
	}
}
