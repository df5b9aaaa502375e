package tokenizer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Vocabulary is the immutable token to id mapping for a model plus the
// derived reverse mapping. Safe for concurrent readers after construction.
type Vocabulary struct {
	ids    map[string]int32
	tokens map[int32]string
}

// NewVocabulary builds a vocabulary from an in-memory mapping.
func NewVocabulary(values map[string]int32) *Vocabulary {
	v := &Vocabulary{
		ids:    make(map[string]int32, len(values)),
		tokens: make(map[int32]string, len(values)),
	}

	for token, id := range values {
		v.ids[token] = id
		if _, ok := v.tokens[id]; !ok {
			v.tokens[id] = token
		}
	}

	return v
}

// ParseVocabulary reads a JSON object mapping token strings to ids, e.g.
// {"Hello": 15496, "ĠWorld": 2159}. Duplicate keys and non-integer or
// negative ids are rejected.
func ParseVocabulary(r io.Reader) (*Vocabulary, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	open, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: vocabulary: %v", ErrInvalidFormat, err)
	}

	if delim, ok := open.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: vocabulary: expected a JSON object", ErrInvalidFormat)
	}

	v := &Vocabulary{
		ids:    make(map[string]int32),
		tokens: make(map[int32]string),
	}

	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: vocabulary: %v", ErrInvalidFormat, err)
		}

		token, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("%w: vocabulary: non-string key", ErrInvalidFormat)
		}

		if _, ok := v.ids[token]; ok {
			return nil, fmt.Errorf("%w: vocabulary: duplicate key %q", ErrInvalidFormat, token)
		}

		value, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: vocabulary: %v", ErrInvalidFormat, err)
		}

		num, ok := value.(json.Number)
		if !ok {
			return nil, fmt.Errorf("%w: vocabulary: id for %q is not a number", ErrInvalidFormat, token)
		}

		id, err := strconv.ParseInt(num.String(), 10, 32)
		if err != nil || id < 0 {
			return nil, fmt.Errorf("%w: vocabulary: bad id %s for %q", ErrInvalidFormat, num, token)
		}

		v.ids[token] = int32(id)
		if _, ok := v.tokens[int32(id)]; !ok {
			v.tokens[int32(id)] = token
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: vocabulary: %v", ErrInvalidFormat, err)
	}

	return v, nil
}

// LoadVocabulary reads a vocabulary from a JSON file on disk.
func LoadVocabulary(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary: %w", err)
	}
	defer f.Close()

	return ParseVocabulary(f)
}

// Encode returns the id of a token string.
func (v *Vocabulary) Encode(s string) (int32, bool) {
	id, ok := v.ids[s]
	return id, ok
}

// Decode returns the token string for an id.
func (v *Vocabulary) Decode(id int32) (string, bool) {
	s, ok := v.tokens[id]
	return s, ok
}

// Len returns the number of tokens in the vocabulary.
func (v *Vocabulary) Len() int {
	return len(v.ids)
}
