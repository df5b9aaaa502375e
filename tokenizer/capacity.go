package tokenizer

import "fmt"

// CountTokens returns the exact number of tokens Encode would produce.
func (t *Tokenizer) CountTokens(s string, opts EncodeOptions) (int, error) {
	tokens, err := t.Encode(s, opts)
	if err != nil {
		return 0, err
	}

	return len(tokens), nil
}

// EncodeToIDsBounded encodes at most maxTokens ids. The result is a prefix
// of the full encoding; the second return is the byte length of text the
// prefix covers. Truncation never splits a multi-byte code point: tokens
// sharing one source index are kept or dropped together.
func (t *Tokenizer) EncodeToIDsBounded(s string, maxTokens int, opts EncodeOptions) ([]int32, int, error) {
	if maxTokens <= 0 {
		return nil, 0, fmt.Errorf("%w: max tokens must be positive, got %d", ErrInvalidArgument, maxTokens)
	}

	tokens, err := t.Encode(s, opts)
	if err != nil {
		return nil, 0, err
	}

	cut := len(tokens)
	if maxTokens < cut {
		cut = t.truncationPoint(tokens, maxTokens)
	}

	ids := make([]int32, cut)
	for i := 0; i < cut; i++ {
		ids[i] = tokens[i].ID
	}

	if cut == len(tokens) {
		return ids, t.coordinateLength(s, opts), nil
	}

	return ids, textEnd(tokens, cut), nil
}

// IndexOfTokenCount reports how much text, measured from the start, maxTokens
// cover, and how many tokens that prefix actually holds. When the whole text
// fits, the returned length equals the text length.
func (t *Tokenizer) IndexOfTokenCount(s string, maxTokens int, opts EncodeOptions) (textLength, count int, err error) {
	if maxTokens <= 0 {
		return 0, 0, fmt.Errorf("%w: max tokens must be positive, got %d", ErrInvalidArgument, maxTokens)
	}

	tokens, err := t.Encode(s, opts)
	if err != nil {
		return 0, 0, err
	}

	if len(tokens) <= maxTokens {
		return t.coordinateLength(s, opts), len(tokens), nil
	}

	cut := t.truncationPoint(tokens, maxTokens)
	return textEnd(tokens, cut), cut, nil
}

// LastIndexOfTokenCount reports where, measured from the end, a suffix of at
// most maxTokens begins, and how many tokens that suffix holds.
func (t *Tokenizer) LastIndexOfTokenCount(s string, maxTokens int, opts EncodeOptions) (textIndex, count int, err error) {
	if maxTokens <= 0 {
		return 0, 0, fmt.Errorf("%w: max tokens must be positive, got %d", ErrInvalidArgument, maxTokens)
	}

	tokens, err := t.Encode(s, opts)
	if err != nil {
		return 0, 0, err
	}

	if len(tokens) <= maxTokens {
		return 0, len(tokens), nil
	}

	// drop whole shared-index groups from the front of the suffix
	start := len(tokens) - maxTokens
	for start > 0 && start < len(tokens) &&
		tokens[start].Offset.Index == tokens[start-1].Offset.Index &&
		!t.isSpecial(tokens[start].ID) && !t.isSpecial(tokens[start-1].ID) {
		start++
	}

	if start == len(tokens) {
		return t.coordinateLength(s, opts), 0, nil
	}

	return tokens[start].Offset.Index, len(tokens) - start, nil
}

// truncationPoint backs cut up until it no longer splits a group of tokens
// sharing one source index.
func (t *Tokenizer) truncationPoint(tokens []Token, cut int) int {
	for cut > 0 && cut < len(tokens) &&
		tokens[cut].Offset.Index == tokens[cut-1].Offset.Index &&
		!t.isSpecial(tokens[cut].ID) && !t.isSpecial(tokens[cut-1].ID) {
		cut--
	}

	return cut
}

// textEnd is the end position of the last included token. Offsets are
// monotonic, so that token carries the furthest extent.
func textEnd(tokens []Token, cut int) int {
	if cut == 0 {
		return 0
	}

	last := tokens[cut-1].Offset
	return last.Index + last.Length
}

// coordinateLength is the length of the coordinate space offsets live in:
// the normalized text, minus the synthesized prefix space.
func (t *Tokenizer) coordinateLength(s string, opts EncodeOptions) int {
	text := s
	if opts.AddPrefixSpace {
		text = " " + text
	}

	if opts.Normalize && t.norm != nil {
		text = t.norm.Normalize(text)
	}

	n := len(text)
	if opts.AddPrefixSpace {
		n--
	}

	return n
}
