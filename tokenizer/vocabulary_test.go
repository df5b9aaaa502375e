package tokenizer

import (
	"errors"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestParseVocabulary(t *testing.T) {
	v, err := ParseVocabulary(strings.NewReader(`{"Hello": 0, "ĠWorld": 1, "!": 2}`))
	assert.NilError(t, err)

	assert.Equal(t, v.Len(), 3)

	id, ok := v.Encode("ĠWorld")
	assert.Assert(t, ok)
	assert.Equal(t, id, int32(1))

	token, ok := v.Decode(2)
	assert.Assert(t, ok)
	assert.Equal(t, token, "!")

	_, ok = v.Encode("missing")
	assert.Assert(t, !ok)

	_, ok = v.Decode(7)
	assert.Assert(t, !ok)
}

func TestParseVocabularyErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"duplicate key", `{"a": 1, "a": 2}`},
		{"not an object", `["a", "b"]`},
		{"negative id", `{"a": -1}`},
		{"fractional id", `{"a": 1.5}`},
		{"non-numeric id", `{"a": "1"}`},
		{"nested value", `{"a": {"b": 1}}`},
		{"truncated", `{"a": 1`},
		{"garbage", `not json`},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVocabulary(strings.NewReader(tt.input))
			assert.Assert(t, errors.Is(err, ErrInvalidFormat), "got %v", err)
		})
	}
}

func TestLoadVocabulary(t *testing.T) {
	v, err := LoadVocabulary("testdata/vocab.json")
	assert.NilError(t, err)

	id, ok := v.Encode("Hello")
	assert.Assert(t, ok)
	assert.Equal(t, id, int32(12))

	_, err = LoadVocabulary("testdata/missing.json")
	assert.Assert(t, err != nil)
}

func TestNewVocabulary(t *testing.T) {
	v := NewVocabulary(map[string]int32{"a": 0, "b": 1})

	id, ok := v.Encode("b")
	assert.Assert(t, ok)
	assert.Equal(t, id, int32(1))

	token, ok := v.Decode(0)
	assert.Assert(t, ok)
	assert.Equal(t, token, "a")
}
