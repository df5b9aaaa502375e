package tokenizer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBPEMergeOrder(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{})

	// no whole-word entry, so the merge loop runs: "Hello" assembles rank
	// by rank, the tail stays single characters
	got := tokenizer.bpe("HelloWorld")

	want := []Token{
		{ID: 12, Value: "Hello", Offset: Offset{0, 5}},
		{ID: 5, Value: "W", Offset: Offset{5, 1}},
		{ID: 4, Value: "o", Offset: Offset{6, 1}},
		{ID: 6, Value: "r", Offset: Offset{7, 1}},
		{ID: 3, Value: "l", Offset: Offset{8, 1}},
		{ID: 7, Value: "d", Offset: Offset{9, 1}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected tokens (-want +got):\n%s", diff)
	}
}

// Equal ranks resolve leftmost first, and the loser becomes a stale heap
// entry that must be skipped.
func TestBPETieBreak(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{})

	got := tokenizer.bpe("lll")

	want := []Token{
		{ID: 26, Value: "ll", Offset: Offset{0, 2}},
		{ID: 3, Value: "l", Offset: Offset{2, 1}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected tokens (-want +got):\n%s", diff)
	}
}

func TestBPEWholeWordShortCircuit(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{})

	got := tokenizer.bpe("Hello")

	want := []Token{{ID: 12, Value: "Hello", Offset: Offset{0, 5}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected tokens (-want +got):\n%s", diff)
	}
}

func TestBPEEmptyAndSingle(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{})

	if got := tokenizer.bpe(""); got != nil {
		t.Errorf("bpe(\"\") = %v, want nil", got)
	}

	got := tokenizer.bpe("!")
	want := []Token{{ID: 19, Value: "!", Offset: Offset{0, 1}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected tokens (-want +got):\n%s", diff)
	}

	// single character outside the vocabulary, no unknown token configured
	if got := tokenizer.bpe("z"); got != nil {
		t.Errorf("bpe(\"z\") = %v, want nil", got)
	}
}

// Sub-tokens of one code point share the code point's starting offset and
// their lengths tile it.
func TestBPEMultiByteOffsets(t *testing.T) {
	tokenizer := newTestTokenizer(t, Config{})

	got := tokenizer.bpe("😀😂")

	want := []Token{
		{ID: 25, Value: "ðŁ", Offset: Offset{0, 0}},
		{ID: 22, Value: "ĺ", Offset: Offset{0, 0}},
		{ID: 23, Value: "Ģ", Offset: Offset{0, 4}},
		{ID: 25, Value: "ðŁ", Offset: Offset{4, 0}},
		{ID: 22, Value: "ĺ", Offset: Offset{4, 0}},
		{ID: 24, Value: "Ĥ", Offset: Offset{4, 4}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected tokens (-want +got):\n%s", diff)
	}
}

// A merge whose result is missing from the vocabulary is still applied;
// the piece falls out at emission.
func TestBPEMergeResultNotInVocab(t *testing.T) {
	vocab := NewVocabulary(map[string]int32{
		"a": 0,
		"b": 1,
		"c": 2,
	})

	merges, err := NewMergeTable("a b")
	if err != nil {
		t.Fatal(err)
	}

	tokenizer, err := New(vocab, merges, Config{})
	if err != nil {
		t.Fatal(err)
	}

	// "ab" merges but is not a token; without an unknown token it drops
	got := tokenizer.bpe("abc")

	want := []Token{{ID: 2, Value: "c", Offset: Offset{2, 1}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected tokens (-want +got):\n%s", diff)
	}

	// with an unknown token the merged piece encodes to it
	tokenizer, err = New(vocab, merges, Config{UnknownToken: "c"})
	if err != nil {
		t.Fatal(err)
	}

	got = tokenizer.bpe("abc")
	want = []Token{
		{ID: 2, Value: "c", Offset: Offset{0, 2}},
		{ID: 2, Value: "c", Offset: Offset{2, 1}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected tokens (-want +got):\n%s", diff)
	}
}
