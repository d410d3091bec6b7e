package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
)

var (
	ErrNotPDF   = errors.New("response is not a pdf")
	ErrTooSmall = errors.New("pdf is smaller than the minimum size")
)

// DownloadStatusError is returned for non-200 download responses.
type DownloadStatusError struct {
	Code int
}

func (e *DownloadStatusError) Error() string {
	return fmt.Sprintf("download failed: %d", e.Code)
}

func (e *DownloadStatusError) Temporary() bool {
	return e.Code >= http.StatusInternalServerError || e.Code == http.StatusTooManyRequests || e.Code == http.StatusRequestTimeout
}

// Getter fetches a PDF body from a URL.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Downloader fetches PDFs over HTTP and checks the bytes really are a PDF.
type Downloader struct {
	http     *resty.Client
	minBytes int64
}

func NewDownloader(timeout time.Duration, userAgent string, minBytes int64) *Downloader {
	httpClient := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/pdf,*/*")
	if userAgent != "" {
		httpClient.SetHeader("User-Agent", userAgent)
	}
	return &Downloader{http: httpClient, minBytes: minBytes}
}

// Get downloads url and returns the body if it is a PDF of at least minBytes.
func (d *Downloader) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := d.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("download request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &DownloadStatusError{Code: resp.StatusCode()}
	}
	body := resp.Body()
	if !isPDF(body) {
		return nil, fmt.Errorf("%w: type %q, size %d", ErrNotPDF, resp.Header().Get("Content-Type"), len(body))
	}
	if int64(len(body)) < d.minBytes {
		return nil, fmt.Errorf("%w: %d < %d bytes", ErrTooSmall, len(body), d.minBytes)
	}
	return body, nil
}

// isPDF sniffs the content rather than trusting the Content-Type header, which
// repositories often set to application/octet-stream.
func isPDF(body []byte) bool {
	if len(body) == 0 {
		return false
	}
	return mimetype.Detect(body).Is("application/pdf")
}

// writeAtomic writes data to path via a temp file in the same directory.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".partial-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
