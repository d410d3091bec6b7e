package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidLabel = errors.New("label must be a string or a number")
	ErrMissingField = errors.New("required field missing")
)

// Label holds a document label as it appeared in the input: either a string
// such as "4*" or a numeric star rating.
type Label struct {
	raw     string
	numeric bool
}

// StringLabel builds a string-valued label.
func StringLabel(s string) Label {
	return Label{raw: s}
}

// NumberLabel builds a numeric label.
func NumberLabel(n float64) Label {
	return Label{raw: strconv.FormatFloat(n, 'f', -1, 64), numeric: true}
}

// IsNumeric reports whether the label was a JSON number.
func (l Label) IsNumeric() bool {
	return l.numeric
}

// Canonical returns the label as a trimmed string. Integral numbers render
// without a fractional part, so 4 and 4.0 both become "4".
func (l Label) Canonical() string {
	if !l.numeric {
		return strings.TrimSpace(l.raw)
	}
	f, err := strconv.ParseFloat(l.raw, 64)
	if err != nil {
		return strings.TrimSpace(l.raw)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ErrInvalidLabel
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Label{raw: s}
		return nil
	case 'n', 't', 'f', '[', '{':
		return fmt.Errorf("%w: got %s", ErrInvalidLabel, data)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLabel, err)
	}
	*l = Label{raw: n.String(), numeric: true}
	return nil
}

func (l Label) MarshalJSON() ([]byte, error) {
	if l.numeric {
		return []byte(l.raw), nil
	}
	return json.Marshal(l.raw)
}

// Document is one labelled input text.
type Document struct {
	Text  string `json:"text"`
	Label Label  `json:"label"`
}

// UnmarshalJSON requires both text and label to be present.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text  *string `json:"text"`
		Label *Label  `json:"label"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Text == nil {
		return fmt.Errorf("%w: text", ErrMissingField)
	}
	// A null label leaves the pointer nil as well.
	if raw.Label == nil {
		return fmt.Errorf("%w: missing or null", ErrInvalidLabel)
	}
	*d = Document{Text: *raw.Text, Label: *raw.Label}
	return nil
}

// Record is one output line: a chunk of text and its parent's label.
type Record struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Item is a dataset entry whose label is kept verbatim, used where the label's
// JSON form must survive a round trip unchanged.
type Item struct {
	Text  string          `json:"text"`
	Label json.RawMessage `json:"label"`
}
