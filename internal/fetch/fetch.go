package fetch

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ref-corpus/internal/doi"
	"ref-corpus/internal/pdftext"
	"ref-corpus/internal/retry"
	"ref-corpus/internal/unpaywall"
)

var ErrEmptyText = errors.New("extracted text is empty")

// Status is the outcome of one DOI.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// LogEntry is one row of the extraction log.
type LogEntry struct {
	DOI    string
	Status Status
	Reason string
	PDFURL string
	Label  string
}

// Options controls the fetch loop.
type Options struct {
	OutputDir   string
	ExtractText bool
	Attempts    int
	RetryDelay  time.Duration
	// Delay is the pause between DOIs that hit the network.
	Delay time.Duration
}

// ExtractFunc turns PDF bytes into text.
type ExtractFunc func([]byte) (string, error)

// Fetcher resolves, downloads and optionally extracts one DOI at a time.
type Fetcher struct {
	lookup  unpaywall.Lookuper
	getter  Getter
	extract ExtractFunc
	opts    Options
	log     *slog.Logger
}

func New(lookup unpaywall.Lookuper, getter Getter, opts Options, log *slog.Logger) *Fetcher {
	if opts.Attempts <= 0 {
		opts.Attempts = 1
	}
	return &Fetcher{
		lookup:  lookup,
		getter:  getter,
		extract: pdftext.Extract,
		opts:    opts,
		log:     log,
	}
}

// WithExtractor replaces the PDF text extractor.
func (f *Fetcher) WithExtractor(fn ExtractFunc) *Fetcher {
	f.extract = fn
	return f
}

// OutputPath is where the result for d is written.
func (f *Fetcher) OutputPath(d string) string {
	ext := ".pdf"
	if f.opts.ExtractText {
		ext = ".txt"
	}
	return filepath.Join(f.opts.OutputDir, doi.Sanitize(d)+ext)
}

// Run processes rows in order. Per-DOI failures are logged and recorded; only a
// cancelled context or an unusable output directory stops the loop.
func (f *Fetcher) Run(ctx context.Context, rows []doi.Row) ([]LogEntry, error) {
	if err := os.MkdirAll(f.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	entries := make([]LogEntry, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		log := f.log.With("doi", row.DOI, "progress", fmt.Sprintf("%d/%d", i+1, len(rows)))

		path := f.OutputPath(row.DOI)
		if _, err := os.Stat(path); err == nil {
			log.Info("already exists, skipping", "path", path)
			entries = append(entries, LogEntry{DOI: row.DOI, Status: StatusSkipped, Reason: "already exists", Label: row.Label})
			continue
		}

		entry := f.fetchOne(ctx, log, row, path)
		entries = append(entries, entry)

		if i < len(rows)-1 {
			if err := sleep(ctx, f.opts.Delay); err != nil {
				return entries, err
			}
		}
	}
	return entries, nil
}

func (f *Fetcher) fetchOne(ctx context.Context, log *slog.Logger, row doi.Row, path string) LogEntry {
	entry := LogEntry{DOI: row.DOI, Label: row.Label}
	fail := func(reason string, err error) LogEntry {
		log.Warn(reason, "err", err)
		entry.Status = StatusFailed
		entry.Reason = reason
		if err != nil {
			entry.Reason = fmt.Sprintf("%s: %v", reason, err)
		}
		return entry
	}

	var loc unpaywall.Location
	err := retry.Do(ctx, f.opts.Attempts, f.opts.RetryDelay, func(ctx context.Context) error {
		var err error
		loc, err = f.lookup.Lookup(ctx, row.DOI)
		if err != nil && !temporary(err) {
			return retry.Permanent(err)
		}
		return err
	})
	if errors.Is(err, unpaywall.ErrNoOALocation) {
		return fail("no open-access pdf", nil)
	}
	if err != nil {
		return fail("lookup failed", err)
	}
	entry.PDFURL = loc.URLForPDF
	log.Info("found open-access pdf", "url", loc.URLForPDF, "host_type", loc.HostType)

	var body []byte
	err = retry.Do(ctx, f.opts.Attempts, f.opts.RetryDelay, func(ctx context.Context) error {
		var err error
		body, err = f.getter.Get(ctx, loc.URLForPDF)
		if err != nil && !temporary(err) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		return fail("download failed", err)
	}

	data := body
	if f.opts.ExtractText {
		text, err := f.extract(body)
		if err != nil {
			return fail("text extraction failed", err)
		}
		if strings.TrimSpace(text) == "" {
			return fail("text extraction failed", ErrEmptyText)
		}
		data = []byte(text)
	}

	if err := writeAtomic(path, data); err != nil {
		return fail("write output failed", err)
	}
	log.Info("saved", "path", path, "bytes", len(data))
	entry.Status = StatusSuccess
	return entry
}

// temporary reports whether err is worth another attempt. Network errors are;
// definitive answers such as a 404 or a non-PDF body are not.
func temporary(err error) bool {
	if errors.Is(err, unpaywall.ErrNoOALocation) || errors.Is(err, ErrNotPDF) || errors.Is(err, ErrTooSmall) {
		return false
	}
	var t interface{ Temporary() bool }
	if errors.As(err, &t) {
		return t.Temporary()
	}
	return !errors.Is(err, context.Canceled)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Summary counts entries by status.
func Summary(entries []LogEntry) map[Status]int {
	out := make(map[Status]int)
	for _, e := range entries {
		out[e.Status]++
	}
	return out
}

// WriteLog writes the entries as CSV.
func WriteLog(w io.Writer, entries []LogEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"DOI", "Status", "Reason", "PDF URL", "Assigned Star"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.DOI, string(e.Status), e.Reason, e.PDFURL, e.Label}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
