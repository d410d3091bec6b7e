package doi

import (
	"encoding/csv"
	"io"
	"sort"
	"strings"
)

// Match pairs a PDF file with the DOI it was downloaded for.
type Match struct {
	DOI      string
	Filename string
}

func isPDF(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}

// MatchExact maps each PDF back to a DOI by reversing the "/" → "_" substitution
// and looking the result up in dois. Files that do not match are ignored.
func MatchExact(files []string, dois []string) []Match {
	set := make(map[string]struct{}, len(dois))
	for _, d := range dois {
		set[strings.TrimSpace(d)] = struct{}{}
	}

	var out []Match
	for _, f := range sortedPDFs(files) {
		candidate := strings.ReplaceAll(Stem(f), "_", "/")
		if _, ok := set[candidate]; ok {
			out = append(out, Match{DOI: candidate, Filename: f})
		}
	}
	return out
}

// MatchFuzzy matches a PDF to the first DOI whose lower-cased sanitized form
// appears anywhere in the lower-cased file stem. DOIs are tried in input order.
func MatchFuzzy(files []string, dois []string) (matched []Match, unmatched []string) {
	type key struct{ norm, doi string }
	keys := make([]key, 0, len(dois))
	for _, d := range dois {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		keys = append(keys, key{norm: strings.ToLower(strings.ReplaceAll(d, "/", "_")), doi: d})
	}

	for _, f := range sortedPDFs(files) {
		stem := strings.ToLower(Stem(f))
		found := false
		for _, k := range keys {
			if strings.Contains(stem, k.norm) {
				matched = append(matched, Match{DOI: k.doi, Filename: f})
				found = true
				break
			}
		}
		if !found {
			unmatched = append(unmatched, f)
		}
	}
	return matched, unmatched
}

func sortedPDFs(files []string) []string {
	var out []string
	for _, f := range files {
		if isPDF(f) {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// WriteMatches writes matches as CSV with a DOI,PDF_File header.
func WriteMatches(w io.Writer, matches []Match) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"DOI", "PDF_File"}); err != nil {
		return err
	}
	for _, m := range matches {
		if err := cw.Write([]string{m.DOI, m.Filename}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteUnmatched writes the unmatched file names as a single-column CSV.
func WriteUnmatched(w io.Writer, files []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"unmatched_filename"}); err != nil {
		return err
	}
	for _, f := range files {
		if err := cw.Write([]string{f}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
