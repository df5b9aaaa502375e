package tokenizer

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// wordCache memoizes per-word encodings. Keys are the original word
// substrings of the (normalized) input, not their byte-expanded form.
// Offsets in cached tokens are relative to the word start; callers rebase
// copies and never mutate the cached values. Safe for concurrent use; a
// racing miss-then-put for the same key is fine because encoding is
// deterministic.
type wordCache struct {
	entries   *lru.Cache[string, []Token]
	maxKeyLen int
}

func newWordCache(size, maxKeyLen int) (*wordCache, error) {
	entries, err := lru.New[string, []Token](size)
	if err != nil {
		return nil, err
	}

	return &wordCache{entries: entries, maxKeyLen: maxKeyLen}, nil
}

func (c *wordCache) get(word string) ([]Token, bool) {
	return c.entries.Get(word)
}

// put stores an encoding. Words longer than maxKeyLen bytes are not cached
// so a stream of long identifiers cannot crowd out common words.
func (c *wordCache) put(word string, tokens []Token) {
	if len(word) > c.maxKeyLen {
		return
	}

	c.entries.Add(word, tokens)
}

func (c *wordCache) len() int {
	return c.entries.Len()
}
