package tokenizer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func defaultPreTokenizer(t *testing.T) *RegexpPreTokenizer {
	t.Helper()

	pre, err := NewRegexpPreTokenizer(DefaultPattern)
	if err != nil {
		t.Fatal(err)
	}

	return pre
}

func words(s string, spans []Span) []string {
	out := make([]string, len(spans))
	for i, span := range spans {
		out[i] = s[span.Offset : span.Offset+span.Length]
	}

	return out
}

func TestSplit(t *testing.T) {
	pre := defaultPreTokenizer(t)

	cases := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "two words",
			input: "Hello World",
			want:  []string{"Hello", " World"},
		},
		{
			name:  "leading space attaches",
			input: " Hello World",
			want:  []string{" Hello", " World"},
		},
		{
			name:  "run of spaces keeps the last for the word",
			input: "a  b",
			want:  []string{"a", " ", " b"},
		},
		{
			name:  "contraction",
			input: "it's",
			want:  []string{"it", "'s"},
		},
		{
			name:  "letters digits punctuation",
			input: "x1 23!",
			want:  []string{"x", "1", " 23", "!"},
		},
		{
			name:  "emoji run is one word",
			input: "😀😂",
			want:  []string{"😀😂"},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			spans := pre.Split(tt.input)

			var got []string
			if spans != nil {
				got = words(tt.input, spans)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("unexpected words (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSplitSpansAscending(t *testing.T) {
	pre := defaultPreTokenizer(t)

	for _, input := range []string{"Hello World", "a  b", "é😀 ok", "tabs\tand\nnewlines"} {
		spans := pre.Split(input)

		prev := 0
		for i, span := range spans {
			if span.Offset < prev {
				t.Errorf("%q: span %d overlaps its predecessor", input, i)
			}

			if span.Length <= 0 || span.Offset+span.Length > len(input) {
				t.Errorf("%q: span %d out of bounds: %+v", input, i, span)
			}

			prev = span.Offset + span.Length
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	pre := defaultPreTokenizer(t)

	first := pre.Split("Hello World, it's 42 😀")
	second := pre.Split("Hello World, it's 42 😀")

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("split is not deterministic (-first +second):\n%s", diff)
	}
}

func TestNewRegexpPreTokenizerInvalid(t *testing.T) {
	if _, err := NewRegexpPreTokenizer("(unclosed"); err == nil {
		t.Error("expected an error for an invalid pattern")
	}
}
