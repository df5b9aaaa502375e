package tokenizer

import (
	"cmp"
	"sync"

	heap "github.com/emirpasic/gods/v2/trees/binaryheap"
)

// symbol is one live piece of a word during the merge loop. Index and
// Length are positions in the expanded rune array; a merged-away symbol
// keeps length 0.
type symbol struct {
	prev, next    int
	index, length int
}

// candidate is a possible merge of two adjacent symbols as they were when
// it was enqueued. total detects stale entries: either symbol may have
// merged with a different neighbor since.
type candidate struct {
	left, right int
	rank        int
	total       int
}

type encodeScratch struct {
	chars   []rune
	src     []int
	symbols []symbol
}

var scratchPool = sync.Pool{
	New: func() any { return &encodeScratch{} },
}

// bpe encodes one word span. The word is expanded through the byte-level
// codec, then adjacent pieces are merged lowest rank first, leftmost pair
// winning ties, until no merge rule applies. Emitted offsets are relative
// to the start of the word.
func (t *Tokenizer) bpe(word string) []Token {
	scratch := scratchPool.Get().(*encodeScratch)
	defer func() {
		scratch.chars = scratch.chars[:0]
		scratch.src = scratch.src[:0]
		scratch.symbols = scratch.symbols[:0]
		scratchPool.Put(scratch)
	}()

	chars, src := expandWord(word, scratch.chars, scratch.src)
	scratch.chars, scratch.src = chars, src

	if len(chars) == 0 {
		return nil
	}

	// short circuit if the whole word is in the vocabulary
	expanded := string(chars)
	if id, ok := t.vocab.Encode(expanded); ok {
		return []Token{{ID: id, Value: expanded, Offset: Offset{0, len(word)}}}
	}

	if len(chars) == 1 {
		if t.unk >= 0 {
			return []Token{{ID: t.unk, Value: t.unkToken, Offset: Offset{0, len(word)}}}
		}

		return nil
	}

	symbols := scratch.symbols
	for i := range chars {
		symbols = append(symbols, symbol{prev: i - 1, next: i + 1, index: i, length: 1})
	}
	scratch.symbols = symbols

	piece := func(s symbol) string {
		return string(chars[s.index : s.index+s.length])
	}

	pairwise := func(left, right int) *candidate {
		if left < 0 || right >= len(symbols) {
			return nil
		}

		ls, rs := symbols[left], symbols[right]
		if ls.length == 0 || rs.length == 0 {
			return nil
		}

		rank, ok := t.merges.Rank(piece(ls), piece(rs))
		if !ok {
			return nil
		}

		return &candidate{left: left, right: right, rank: rank, total: ls.length + rs.length}
	}

	pairs := heap.NewWith(func(i, j *candidate) int {
		if c := cmp.Compare(i.rank, j.rank); c != 0 {
			return c
		}

		return cmp.Compare(i.left, j.left)
	})

	for i := 0; i < len(chars)-1; i++ {
		if cand := pairwise(i, i+1); cand != nil {
			pairs.Push(cand)
		}
	}

	for !pairs.Empty() {
		cand, _ := pairs.Pop()

		left, right := symbols[cand.left], symbols[cand.right]
		if left.length == 0 || right.length == 0 || left.length+right.length != cand.total {
			continue
		}

		symbols[cand.left].length += right.length
		symbols[cand.right].length = 0

		symbols[cand.left].next = right.next
		if right.next < len(symbols) {
			symbols[right.next].prev = cand.left
		}

		if next := pairwise(symbols[cand.left].prev, cand.left); next != nil {
			pairs.Push(next)
		}

		if next := pairwise(cand.left, symbols[cand.left].next); next != nil {
			pairs.Push(next)
		}
	}

	var tokens []Token
	for i := 0; i < len(symbols); i = symbols[i].next {
		sym := symbols[i]

		start := src[sym.index]
		end := len(word)
		if sym.next < len(symbols) {
			end = src[symbols[sym.next].index]
		}

		value := piece(sym)
		if id, ok := t.vocab.Encode(value); ok {
			tokens = append(tokens, Token{ID: id, Value: value, Offset: Offset{start, end - start}})
		} else if t.unk >= 0 {
			tokens = append(tokens, Token{ID: t.unk, Value: t.unkToken, Offset: Offset{start, end - start}})
		}
	}

	return tokens
}
