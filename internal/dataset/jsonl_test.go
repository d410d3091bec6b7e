package dataset

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderSkipsBlankLines(t *testing.T) {
	input := "{\"text\":\"a\",\"label\":\"1*\"}\n\n  \n{\"text\":\"b\",\"label\":2}\n"
	docs, err := ReadAll[Document](strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b", docs[1].Text)
	assert.Equal(t, "2", docs[1].Label.Canonical())
}

func TestReaderReportsRecordNumber(t *testing.T) {
	input := "{\"text\":\"a\",\"label\":\"1*\"}\n{\"text\": oops}\n"
	docs, err := ReadAll[Document](strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2")
	assert.Len(t, docs, 1)
}

func TestReaderRejectsStrayClosingBracket(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"stray brace", "{\"text\":\"a\",\"label\":\"1*\"}\n}\n{\"text\":\"b\",\"label\":\"2*\"}\n"},
		{"stray bracket", "{\"text\":\"a\",\"label\":\"1*\"}\n]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, err := ReadAll[Document](strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "record 2")
			assert.Len(t, docs, 1)
		})
	}
}

func TestReaderEmptyInput(t *testing.T) {
	docs, err := ReadAll[Document](strings.NewReader(" \n\n"))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestWriterPreservesText(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Write(Record{Text: "café <b> & ü", Label: "4*"}))
	require.NoError(t, w.Write(Record{Text: "second", Label: "3"}))
	require.NoError(t, w.Flush())

	assert.Equal(t, 2, w.Count())
	assert.Equal(t,
		"{\"text\":\"café <b> & ü\",\"label\":\"4*\"}\n{\"text\":\"second\",\"label\":\"3\"}\n",
		buf.String())
}

func TestWriteArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteArray[Item](&buf, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	items := []Item{{Text: "ü", Label: []byte(`"4*"`)}}
	require.NoError(t, WriteArray(&buf, items))
	assert.Equal(t, "[\n  {\n    \"text\": \"ü\",\n    \"label\": \"4*\"\n  }\n]\n", buf.String())

	back, err := ReadArray[Item](&buf)
	require.NoError(t, err)
	assert.Equal(t, items[0].Text, back[0].Text)
	assert.JSONEq(t, `"4*"`, string(back[0].Label))
}
