package main

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lines = `{"text":"a","label":"4*"}
{"text":"b","label":"4*"}
{"text":"c","label":"1*"}
`

func TestCountLabelsPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "set.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))

	source, counts, err := countLabels(path)
	require.NoError(t, err)
	assert.Equal(t, path, source)
	assert.Equal(t, 2, counts[`"4*"`])
	assert.Equal(t, 1, counts[`"1*"`])
}

func TestCountLabelsZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "set.ZIP")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("training_set_chunked.jsonl")
	require.NoError(t, err)
	_, err = w.Write([]byte(lines))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	source, counts, err := countLabels(path)
	require.NoError(t, err)
	assert.Equal(t, "training_set_chunked.jsonl", source)
	assert.Equal(t, 3, counts.Total())
}
