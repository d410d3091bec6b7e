package tokenizer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pkoukk/tiktoken-go"
)

const DefaultEncoding = "cl100k_base"

// Tokenizer converts text to token ids and back.
type Tokenizer interface {
	// Encode returns every token of text; it never truncates.
	Encode(text string) ([]int, error)
	// Decode renders ids as text with control characters stripped.
	Decode(ids []int) (string, error)
}

// Tiktoken adapts a tiktoken BPE encoding to Tokenizer.
type Tiktoken struct {
	encoding string
	tke      *tiktoken.Tiktoken
}

// NewTiktoken loads an encoding by name, or by model name when the first lookup
// fails. Unknown names fall back to cl100k_base.
func NewTiktoken(encodingOrModel string) (*Tiktoken, error) {
	if encodingOrModel == "" {
		encodingOrModel = DefaultEncoding
	}
	name := encodingOrModel
	tke, err := tiktoken.GetEncoding(encodingOrModel)
	if err != nil {
		tke, err = tiktoken.EncodingForModel(encodingOrModel)
	}
	if err != nil {
		name = DefaultEncoding
		tke, err = tiktoken.GetEncoding(DefaultEncoding)
		if err != nil {
			return nil, fmt.Errorf("load encoding %q: %w", DefaultEncoding, err)
		}
	}
	return &Tiktoken{encoding: name, tke: tke}, nil
}

// Encoding names the loaded encoding.
func (t *Tiktoken) Encoding() string {
	return t.encoding
}

func (t *Tiktoken) Encode(text string) (ids []int, err error) {
	if t == nil || t.tke == nil {
		return nil, fmt.Errorf("tiktoken encoder not initialized")
	}
	defer func() {
		if rec := recover(); rec != nil {
			ids, err = nil, fmt.Errorf("tiktoken encode: %v", rec)
		}
	}()
	return t.tke.Encode(text, nil, nil), nil
}

func (t *Tiktoken) Decode(ids []int) (text string, err error) {
	if t == nil || t.tke == nil {
		return "", fmt.Errorf("tiktoken encoder not initialized")
	}
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("tiktoken decode: %v", rec)
		}
	}()
	return StripControl(t.tke.Decode(ids)), nil
}

// StripControl removes control and invalid runes, keeping tabs and line breaks.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			return r
		case r == unicode.ReplacementChar, unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}
