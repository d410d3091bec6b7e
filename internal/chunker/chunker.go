package chunker

import (
	"errors"
	"fmt"
)

// ShortDocumentPolicy selects how documents that already fit in one window are handled.
type ShortDocumentPolicy string

const (
	// PolicyPassthrough emits a document of at most WindowSize tokens as a single window.
	PolicyPassthrough ShortDocumentPolicy = "passthrough"
	// PolicyWindow always runs the stride loop, even for short documents.
	PolicyWindow ShortDocumentPolicy = "window"
)

var (
	ErrInvalidConfig = errors.New("invalid chunking configuration")
	ErrAdapter       = errors.New("tokenizer adapter failure")
	ErrEmptyDocument = errors.New("document has no tokens")
)

// Options controls how a token sequence is windowed.
type Options struct {
	WindowSize int
	Stride     int
	MinLen     int
	Policy     ShortDocumentPolicy
}

// DefaultOptions matches a 4096-token model context with a 512-token overlap.
func DefaultOptions() Options {
	return Options{
		WindowSize: 4096,
		Stride:     512,
		MinLen:     10,
		Policy:     PolicyPassthrough,
	}
}

// Validate checks window_size > stride > 0 and min_len >= 1.
func (o Options) Validate() error {
	if o.Stride <= 0 {
		return fmt.Errorf("%w: stride must be positive, got %d", ErrInvalidConfig, o.Stride)
	}
	if o.WindowSize <= o.Stride {
		return fmt.Errorf("%w: window size %d must exceed stride %d", ErrInvalidConfig, o.WindowSize, o.Stride)
	}
	if o.MinLen < 1 {
		return fmt.Errorf("%w: min length must be at least 1, got %d", ErrInvalidConfig, o.MinLen)
	}
	switch o.Policy {
	case PolicyPassthrough, PolicyWindow:
	default:
		return fmt.Errorf("%w: unknown short document policy %q", ErrInvalidConfig, o.Policy)
	}
	return nil
}

// step is the distance between consecutive window starts.
func (o Options) step() int {
	return o.WindowSize - o.Stride
}

// Window splits tokens into overlapping windows of at most WindowSize tokens.
// Consecutive windows share Stride tokens. Windows shorter than MinLen are dropped,
// which only ever affects the trailing window or a document that is short overall.
// The returned windows alias tokens.
func Window(tokens []int, opts Options) [][]int {
	windows, _ := split(tokens, opts)
	return windows
}

// split is Window plus the number of trailing tokens that no kept window covers.
func split(tokens []int, opts Options) ([][]int, int) {
	if len(tokens) == 0 {
		return nil, 0
	}

	if opts.Policy != PolicyWindow && len(tokens) <= opts.WindowSize {
		if len(tokens) < opts.MinLen {
			return nil, len(tokens)
		}
		return [][]int{tokens}, 0
	}

	step := opts.step()
	var windows [][]int
	covered := 0
	for start := 0; start < len(tokens); start += step {
		end := start + opts.WindowSize
		if end > len(tokens) {
			end = len(tokens)
		}
		if end-start < opts.MinLen {
			continue
		}
		windows = append(windows, tokens[start:end])
		covered = end
	}
	return windows, len(tokens) - covered
}
