package dataset

import (
	"bytes"
	"encoding/json"
)

type itemKey struct {
	text  string
	label string
}

// Merge concatenates the given datasets and keeps the first occurrence of every
// (text, label) pair, preserving input order. Labels 4 and 4.0 are the same label.
func Merge(sets ...[]Item) []Item {
	seen := make(map[itemKey]struct{})
	var out []Item
	for _, set := range sets {
		for _, it := range set {
			key := itemKey{text: it.Text, label: labelKey(it.Label)}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, it)
		}
	}
	return out
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// labelKey compares numbers by value and everything else by compact JSON.
// Strings keep their quotes, so "4" and 4 stay distinct.
func labelKey(raw json.RawMessage) string {
	var l Label
	if err := json.Unmarshal(raw, &l); err == nil && l.IsNumeric() {
		return l.Canonical()
	}
	return compactJSON(raw)
}
