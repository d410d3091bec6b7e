package dataset

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		canonical string
		numeric   bool
		wantErr   bool
	}{
		{"star string", `"4*"`, "4*", false, false},
		{"padded string", `"  3* "`, "3*", false, false},
		{"integer", `4`, "4", true, false},
		{"integral float", `4.0`, "4", true, false},
		{"fraction", `2.5`, "2.5", true, false},
		{"negative", `-1`, "-1", true, false},
		{"null", `null`, "", false, true},
		{"bool", `true`, "", false, true},
		{"array", `[1]`, "", false, true},
		{"object", `{"a":1}`, "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc Document
			err := json.Unmarshal([]byte(`{"text":"t","label":`+tt.input+`}`), &doc)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidLabel))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.canonical, doc.Label.Canonical())
			assert.Equal(t, tt.numeric, doc.Label.IsNumeric())
		})
	}
}

func TestDocumentRequiresFields(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"missing label", `{"text":"a"}`, ErrInvalidLabel},
		{"missing text", `{"label":"4*"}`, ErrMissingField},
		{"empty object", `{}`, ErrMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc Document
			err := json.Unmarshal([]byte(tt.input), &doc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"text":"","label":"1*"}`), &doc))
	assert.Equal(t, "", doc.Text)
	assert.Equal(t, "1*", doc.Label.Canonical())
}

func TestLabelMarshalKeepsKind(t *testing.T) {
	b, err := json.Marshal(Document{Text: "t", Label: NumberLabel(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"t","label":3}`, string(b))

	b, err = json.Marshal(Document{Text: "t", Label: StringLabel("3*")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"t","label":"3*"}`, string(b))
}
