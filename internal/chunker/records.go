package chunker

import (
	"fmt"

	"ref-corpus/internal/dataset"
)

// DecodeFunc turns a window of token ids back into text.
type DecodeFunc func(ids []int) (string, error)

// ToRecords decodes each window and pairs it with the document's canonical label,
// one record per window in window order.
func ToRecords(doc dataset.Document, windows [][]int, decode DecodeFunc) ([]dataset.Record, error) {
	label := doc.Label.Canonical()
	records := make([]dataset.Record, 0, len(windows))
	for i, w := range windows {
		text, err := decode(w)
		if err != nil {
			return nil, fmt.Errorf("%w: decode window %d: %v", ErrAdapter, i, err)
		}
		records = append(records, dataset.Record{Text: text, Label: label})
	}
	return records, nil
}
