package doi

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchExact(t *testing.T) {
	files := []string{"10.1000_b.pdf", "notes.txt", "10.1000_a.PDF", "10.9999_z.pdf"}
	dois := []string{"10.1000/a", " 10.1000/b "}

	assert.Equal(t, []Match{
		{DOI: "10.1000/a", Filename: "10.1000_a.PDF"},
		{DOI: "10.1000/b", Filename: "10.1000_b.pdf"},
	}, MatchExact(files, dois))
}

func TestMatchFuzzy(t *testing.T) {
	files := []string{
		"Smith2020_10.1000_ABC_final.pdf",
		"unrelated.pdf",
		"10.2000_q.pdf",
		"readme.md",
	}
	dois := []string{"10.1000/abc", "10.2000/q", ""}

	matched, unmatched := MatchFuzzy(files, dois)
	assert.Equal(t, []Match{
		{DOI: "10.2000/q", Filename: "10.2000_q.pdf"},
		{DOI: "10.1000/abc", Filename: "Smith2020_10.1000_ABC_final.pdf"},
	}, matched)
	assert.Equal(t, []string{"unrelated.pdf"}, unmatched)
}

func TestWriteMatches(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMatches(&buf, []Match{{DOI: "10.1/x", Filename: "10.1_x.pdf"}}))
	assert.Equal(t, "DOI,PDF_File\n10.1/x,10.1_x.pdf\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteUnmatched(&buf, []string{"a.pdf"}))
	assert.Equal(t, "unmatched_filename\na.pdf\n", buf.String())
}
