package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Reader decodes a stream of JSON values, one per line.
type Reader[T any] struct {
	dec  *json.Decoder
	line int
}

// NewReader wraps r. Blank lines between objects are ignored.
func NewReader[T any](r io.Reader) *Reader[T] {
	return &Reader[T]{dec: json.NewDecoder(bufio.NewReader(r))}
}

// Next returns the next value, or io.EOF when the stream is exhausted.
func (r *Reader[T]) Next() (T, error) {
	var v T
	if !r.dec.More() {
		return v, r.end()
	}
	r.line++
	if err := r.dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return v, io.EOF
		}
		return v, fmt.Errorf("record %d: %w", r.line, err)
	}
	return v, nil
}

// end confirms the stream is exhausted. More also stops at a stray closing
// bracket, which must not pass for a clean end of input.
func (r *Reader[T]) end() error {
	tok, err := r.dec.Token()
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("record %d: %w", r.line+1, err)
	}
	return fmt.Errorf("record %d: unexpected %v", r.line+1, tok)
}

// ReadAll drains r into a slice.
func ReadAll[T any](r io.Reader) ([]T, error) {
	reader := NewReader[T](r)
	var out []T
	for {
		v, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}

// Writer encodes values as JSON lines. Every Write produces a complete line,
// so output stays valid JSONL even if the run stops halfway.
type Writer struct {
	buf   *bufio.Writer
	enc   *json.Encoder
	count int
}

func NewWriter(w io.Writer) *Writer {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	return &Writer{buf: buf, enc: enc}
}

func (w *Writer) Write(v any) error {
	if err := w.enc.Encode(v); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of values written so far.
func (w *Writer) Count() int {
	return w.count
}

func (w *Writer) Flush() error {
	return w.buf.Flush()
}

// ReadArray decodes a single JSON array of values.
func ReadArray[T any](r io.Reader) ([]T, error) {
	var out []T
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteArray writes values as an indented JSON array with non-ASCII text preserved.
func WriteArray[T any](w io.Writer, values []T) error {
	if values == nil {
		values = []T{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(values)
}
