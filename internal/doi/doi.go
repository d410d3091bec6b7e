package doi

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	DefaultDOIColumn   = "DOI"
	DefaultLabelColumn = "Assigned Star"
)

var ErrMissingColumn = errors.New("csv column not found")

// Row is one DOI from the input list, with its star rating when the CSV has one.
type Row struct {
	DOI   string
	Label string
}

// Sanitize turns a DOI into a file-name-safe stem.
func Sanitize(doi string) string {
	return strings.NewReplacer("/", "_", ":", "_").Replace(strings.TrimSpace(doi))
}

// Stem strips the directory and extension from a file name.
func Stem(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ReadRows loads DOIs from a CSV with a header row. The label column is optional;
// pass "" to skip it. Blank DOIs are dropped and duplicates are kept once.
func ReadRows(r io.Reader, doiColumn, labelColumn string) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	doiIdx, labelIdx := -1, -1
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		switch {
		case name == doiColumn:
			doiIdx = i
		case labelColumn != "" && name == labelColumn:
			labelIdx = i
		}
	}
	if doiIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, doiColumn)
	}
	if labelColumn != "" && labelIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, labelColumn)
	}

	seen := make(map[string]struct{})
	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, fmt.Errorf("read csv: %w", err)
		}
		if doiIdx >= len(rec) {
			continue
		}
		d := strings.TrimSpace(rec[doiIdx])
		if d == "" {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		row := Row{DOI: d}
		if labelIdx >= 0 && labelIdx < len(rec) {
			row.Label = strings.TrimSpace(rec[labelIdx])
		}
		rows = append(rows, row)
	}
}
