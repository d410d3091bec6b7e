package dataset

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

var ErrNoDatasetInArchive = errors.New("no .json or .jsonl file in archive")

// LabelCount is the number of records carrying one label value.
type LabelCount struct {
	Label string
	Count int
}

// LabelCounts tallies labels by their JSON form, so 4 and "4" stay distinct
// while 4 and 4.0 count together.
type LabelCounts map[string]int

// Sorted returns the counts ordered by label.
func (c LabelCounts) Sorted() []LabelCount {
	out := make([]LabelCount, 0, len(c))
	for label, n := range c {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Total is the number of records counted.
func (c LabelCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// CountLabels reads JSON lines and tallies their label field.
func CountLabels(r io.Reader) (LabelCounts, error) {
	reader := NewReader[Item](r)
	counts := make(LabelCounts)
	for {
		it, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return counts, nil
		}
		if err != nil {
			return counts, err
		}
		counts[labelKey(it.Label)]++
	}
}

// CountLabelsInZip counts labels in the first .json or .jsonl entry of a zip
// archive, in name order, without extracting it to disk.
func CountLabelsInZip(path string) (string, LabelCounts, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", nil, err
	}
	defer zr.Close()

	var candidates []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := strings.ToLower(f.Name)
		if strings.HasSuffix(name, ".json") || strings.HasSuffix(name, ".jsonl") {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return "", nil, fmt.Errorf("%s: %w", path, ErrNoDatasetInArchive)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })

	f := candidates[0]
	rc, err := f.Open()
	if err != nil {
		return f.Name, nil, err
	}
	defer rc.Close()

	counts, err := CountLabels(rc)
	return f.Name, counts, err
}

// String renders counts the way a Python dict prints, for quick eyeballing.
func (c LabelCounts) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, lc := range c.Sorted() {
		if i > 0 {
			b.WriteString(", ")
		}
		label := lc.Label
		var s string
		if json.Unmarshal([]byte(label), &s) == nil {
			label = "'" + s + "'"
		}
		fmt.Fprintf(&b, "%s: %d", label, lc.Count)
	}
	b.WriteString("}")
	return b.String()
}
