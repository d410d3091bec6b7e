package main

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ref-corpus/internal/app"
	"ref-corpus/internal/chunker"
	"ref-corpus/internal/config"
	"ref-corpus/internal/dataset"
	"ref-corpus/internal/logger"
)

// wordTokenizer gives every whitespace-separated word its own id.
type wordTokenizer struct {
	ids   map[string]int
	words []string
}

func newWordTokenizer() *wordTokenizer {
	return &wordTokenizer{ids: make(map[string]int)}
}

func (w *wordTokenizer) Encode(text string) ([]int, error) {
	var out []int
	for _, word := range strings.Fields(text) {
		id, ok := w.ids[word]
		if !ok {
			id = len(w.words)
			w.ids[word] = id
			w.words = append(w.words, word)
		}
		out = append(out, id)
	}
	return out, nil
}

func (w *wordTokenizer) Decode(ids []int) (string, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = w.words[id]
	}
	return strings.Join(parts, " "), nil
}

func words(prefix string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = prefix + string(rune('a'+i%26)) + strings.Repeat("x", i/26)
	}
	return strings.Join(parts, " ")
}

func newTestDeps(t *testing.T, input, output string) app.ChunkDeps {
	t.Helper()
	opts := chunker.Options{WindowSize: 8, Stride: 2, MinLen: 3, Policy: chunker.PolicyPassthrough}
	c, err := chunker.New(newWordTokenizer(), opts, chunker.FailFast, logger.Discard())
	require.NoError(t, err)
	return app.ChunkDeps{
		Deps: app.Deps{
			Config: config.Config{Chunk: config.ChunkConfig{Input: input, Output: output}},
			Log:    logger.Discard(),
		},
		Chunker: c,
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.jsonl")
	output := filepath.Join(dir, "out.jsonl")

	lines := []string{
		`{"text": "` + words("s", 5) + `", "label": " 4* "}`,
		`{"text": "` + words("l", 20) + `", "label": 3}`,
		`{"text": "", "label": "2*"}`,
		`{"text": "tiny doc", "label": "1*"}`,
	}
	require.NoError(t, os.WriteFile(input, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	deps := newTestDeps(t, input, output)
	require.NoError(t, run(context.Background(), deps))

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()

	var records []dataset.Record
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec dataset.Record
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())

	// 5 tokens fit one window; 20 tokens give starts 0, 6, 12, 18 with the
	// 2-token tail at 18 dropped; the empty and 2-token documents give nothing.
	require.Len(t, records, 4)
	assert.Equal(t, "4*", records[0].Label)
	assert.Equal(t, words("s", 5), records[0].Text)
	for _, rec := range records[1:] {
		assert.Equal(t, "3", rec.Label)
	}
	assert.Len(t, strings.Fields(records[1].Text), 8)
	assert.Len(t, strings.Fields(records[3].Text), 8)
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	deps := newTestDeps(t, filepath.Join(dir, "missing.jsonl"), filepath.Join(dir, "out.jsonl"))
	assert.Error(t, run(context.Background(), deps))
}
