package cleaner

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"ref-corpus/internal/dataset"
)

// DefaultMinChars is the cleaned length a text must exceed to be kept.
const DefaultMinChars = 500

var (
	startMarker  = regexp.MustCompile(`(?i)\b(ABSTRACT|INTRODUCTION|BACKGROUND|OBJECTIVE|AIM)\b`)
	endMarker    = regexp.MustCompile(`(?i)\b(REFERENCES|BIBLIOGRAPHY)\b`)
	noisyLine    = regexp.MustCompile(`(?i)(copyright|doi:|pmid:|all rights reserved|terms of use)`)
	blankLines   = regexp.MustCompile(`\n{2,}`)
	repeatSpaces = regexp.MustCompile(` +`)
)

var starLabels = map[string]int{
	"4*": 4,
	"3*": 3,
	"2*": 2,
	"1*": 1,
}

// Record is a cleaned training example with an integer star rating.
type Record struct {
	Text  string `json:"text"`
	Label int    `json:"label"`
}

// Stats summarises a Clean pass.
type Stats struct {
	Input    int
	TooShort int
	BadLabel int
	Kept     int
}

// CleanText keeps the body of a paper: from the first section heading such as
// ABSTRACT up to REFERENCES, with boilerplate lines removed and whitespace normalised.
func CleanText(text string) string {
	if loc := startMarker.FindStringIndex(text); loc != nil {
		text = text[loc[0]:]
	}
	if loc := endMarker.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if noisyLine.MatchString(line) {
			continue
		}
		kept = append(kept, strings.TrimSpace(line))
	}

	cleaned := strings.Join(kept, "\n")
	cleaned = blankLines.ReplaceAllString(cleaned, "\n")
	cleaned = repeatSpaces.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// StarLabel maps a REF rating such as "4*" to 4. Any other value is rejected.
func StarLabel(raw json.RawMessage) (int, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	n, ok := starLabels[s]
	return n, ok
}

// Clean applies CleanText to every item and keeps those longer than minChars
// runes whose label is a star rating.
func Clean(items []dataset.Item, minChars int) ([]Record, Stats) {
	stats := Stats{Input: len(items)}
	var out []Record
	for _, it := range items {
		text := CleanText(it.Text)
		if utf8.RuneCountInString(text) <= minChars {
			stats.TooShort++
			continue
		}
		label, ok := StarLabel(it.Label)
		if !ok {
			stats.BadLabel++
			continue
		}
		out = append(out, Record{Text: text, Label: label})
	}
	stats.Kept = len(out)
	return out, stats
}
