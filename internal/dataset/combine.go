package dataset

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ref-corpus/internal/doi"
)

// CombineResult is the outcome of joining extracted texts with their ratings.
type CombineResult struct {
	Records []Record
	Missing []string
	Empty   []string
}

// Combine reads <textsDir>/<sanitized doi>.txt for every row and pairs the trimmed
// text with the row's label. Rows without a file are reported in Missing, rows
// whose file is blank in Empty.
func Combine(rows []doi.Row, textsDir string, log *slog.Logger) (CombineResult, error) {
	var res CombineResult
	for _, row := range rows {
		path := filepath.Join(textsDir, doi.Sanitize(row.DOI)+".txt")
		content, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("missing text file for doi", "doi", row.DOI, "path", path)
			res.Missing = append(res.Missing, row.DOI)
			continue
		}
		if err != nil {
			return res, err
		}
		text := strings.TrimSpace(string(content))
		if text == "" {
			log.Warn("empty text file for doi", "doi", row.DOI, "path", path)
			res.Empty = append(res.Empty, row.DOI)
			continue
		}
		res.Records = append(res.Records, Record{Text: text, Label: row.Label})
	}
	return res, nil
}
