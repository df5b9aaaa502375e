// Package tokenizer implements a byte-level byte-pair-encoding tokenizer of
// the GPT-2 / CodeGen / RoBERTa family. Given a vocabulary, an ordered list
// of merge rules, and an input text it produces parallel token strings,
// token ids, and byte offsets back into the input, and inverts the process
// for decoding.
package tokenizer

// Offset locates a token inside the text it was produced from. Index and
// Length are byte positions. When a normalizer rewrites the input, offsets
// refer to the normalized text. Synthetic tokens such as begin-of-text and
// end-of-text carry zero-length offsets.
type Offset struct {
	Index  int
	Length int
}

// Token is one unit of an encoding: the vocabulary string, its id, and
// where it came from.
type Token struct {
	ID     int32
	Value  string
	Offset Offset
}
