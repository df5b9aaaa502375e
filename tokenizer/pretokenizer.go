package tokenizer

import (
	"fmt"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// Span identifies a word inside the text handed to the pre-tokenizer.
// Offset and Length are byte positions.
type Span struct {
	Offset int
	Length int
}

// PreTokenizer splits text into the word spans BPE encodes independently.
// Spans are non-overlapping and ascending; bytes outside every span are
// dropped from the encoding. Implementations must be deterministic and
// side-effect free.
type PreTokenizer interface {
	Split(s string) []Span
}

// DefaultPattern is the GPT-2/RoBERTa word pattern. The negative lookahead
// keeps the final space of a whitespace run attached to the following word,
// which is why this needs regexp2 rather than the standard library.
const DefaultPattern = `'s|'t|'re|'ve|'m|'ll|'d| ?\p{L}+| ?\p{N}+| ?[^\s\p{L}\p{N}]+|\s+(?!\S)|\s+`

// RegexpPreTokenizer yields one span per regex match.
type RegexpPreTokenizer struct {
	re *regexp2.Regexp
}

// NewRegexpPreTokenizer compiles a word pattern. Patterns run with Unicode
// character classes enabled.
func NewRegexpPreTokenizer(pattern string) (*RegexpPreTokenizer, error) {
	re, err := regexp2.Compile(pattern, regexp2.Unicode|regexp2.RE2)
	if err != nil {
		return nil, fmt.Errorf("%w: pre-tokenizer pattern: %v", ErrInvalidConfig, err)
	}

	return &RegexpPreTokenizer{re: re}, nil
}

func (p *RegexpPreTokenizer) Split(s string) []Span {
	runes := []rune(s)

	// regexp2 reports match positions in runes; translate back to bytes.
	// Decode from the string rather than the rune slice so invalid bytes,
	// which each become one replacement rune, keep their one-byte width.
	starts := make([]int, len(runes)+1)
	var offset int
	for i := range runes {
		starts[i] = offset
		_, n := utf8.DecodeRuneInString(s[offset:])
		offset += n
	}
	starts[len(runes)] = offset

	var spans []Span
	for m, _ := p.re.FindRunesMatch(runes); m != nil; m, _ = p.re.FindNextMatch(m) {
		start := starts[m.Index]
		spans = append(spans, Span{Offset: start, Length: starts[m.Index+m.Length] - start})
	}

	return spans
}
