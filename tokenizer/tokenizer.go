package tokenizer

import (
	"fmt"

	"github.com/parlance-dev/bpetokenizer/logutil"
)

const (
	// DefaultCacheSize bounds the word cache entry count.
	DefaultCacheSize = 8192

	// DefaultMaxCachedWordLength is the longest word, in bytes, the cache
	// will store.
	DefaultMaxCachedWordLength = 15
)

// Config carries construction-time settings for a Tokenizer.
type Config struct {
	// PreTokenizer splits text into words. Nil selects the GPT-2 pattern.
	PreTokenizer PreTokenizer

	// Normalizer rewrites text before splitting. Nil means identity.
	Normalizer Normalizer

	// AddedTokens bypass BPE when one matches a whole word.
	AddedTokens map[string]int32

	// UnknownToken, when set, must exist in the vocabulary; pieces missing
	// from the vocabulary then encode to it instead of being dropped.
	UnknownToken string

	// BeginOfText and EndOfText name the markers injected by the
	// AddBeginOfText and AddEndOfText flags.
	BeginOfText string
	EndOfText   string

	// Defaults for the per-call encode flags, see Defaults.
	AddPrefixSpace bool
	AddBeginOfText bool
	AddEndOfText   bool

	// CacheSize and MaxCachedWordLength bound the word cache; zero selects
	// the package defaults.
	CacheSize           int
	MaxCachedWordLength int

	// OccurrenceRanks optionally attaches the RoBERTa frequency overlay.
	OccurrenceRanks *OccurrenceRanks
}

// Tokenizer encodes text to tokens and back. All state except the internal
// word cache is immutable after construction; one instance may serve many
// concurrent callers.
type Tokenizer struct {
	vocab  *Vocabulary
	merges *MergeTable
	added  *AddedTokens
	pre    PreTokenizer
	norm   Normalizer
	cache  *wordCache
	ranks  *OccurrenceRanks

	unk, bos, eos                int32
	unkToken, bosToken, eosToken string

	defaults EncodeOptions
}

// EncodeOptions are the per-call encode flags. Zero value means: no prefix
// space, no markers, no splitting, no normalization; most callers start
// from Defaults.
type EncodeOptions struct {
	// AddPrefixSpace encodes as if the text began with a space, reporting
	// offsets into the unprefixed text.
	AddPrefixSpace bool

	// AddBeginOfText and AddEndOfText inject zero-length marker tokens.
	AddBeginOfText bool
	AddEndOfText   bool

	// SplitWords runs the pre-tokenizer; otherwise the whole text is one
	// word span.
	SplitWords bool

	// Normalize runs the configured normalizer.
	Normalize bool
}

// DecodeOptions are the per-call decode flags.
type DecodeOptions struct {
	// WithSpecialTokens renders begin/end/unknown markers instead of
	// skipping them.
	WithSpecialTokens bool

	// HasPrefixSpace strips the leading space of the first token, undoing
	// AddPrefixSpace.
	HasPrefixSpace bool
}

// New builds a tokenizer over a vocabulary and merge table. Special token
// strings named in cfg must be present in the vocabulary.
func New(vocab *Vocabulary, merges *MergeTable, cfg Config) (*Tokenizer, error) {
	if vocab == nil || merges == nil {
		return nil, fmt.Errorf("%w: vocabulary and merges are required", ErrInvalidConfig)
	}

	t := &Tokenizer{
		vocab:  vocab,
		merges: merges,
		added:  NewAddedTokens(cfg.AddedTokens),
		norm:   cfg.Normalizer,
		ranks:  cfg.OccurrenceRanks,
		unk:    -1,
		bos:    -1,
		eos:    -1,
	}

	special := func(name, value string) (int32, error) {
		id, ok := vocab.Encode(value)
		if !ok {
			return -1, fmt.Errorf("%w: %s token %q not in vocabulary", ErrInvalidConfig, name, value)
		}

		return id, nil
	}

	var err error
	if cfg.UnknownToken != "" {
		if t.unk, err = special("unknown", cfg.UnknownToken); err != nil {
			return nil, err
		}
		t.unkToken = cfg.UnknownToken
	}

	if cfg.BeginOfText != "" {
		if t.bos, err = special("begin-of-text", cfg.BeginOfText); err != nil {
			return nil, err
		}
		t.bosToken = cfg.BeginOfText
	}

	if cfg.EndOfText != "" {
		if t.eos, err = special("end-of-text", cfg.EndOfText); err != nil {
			return nil, err
		}
		t.eosToken = cfg.EndOfText
	}

	if cfg.AddBeginOfText && t.bos < 0 {
		return nil, fmt.Errorf("%w: AddBeginOfText requires a begin-of-text token", ErrInvalidConfig)
	}

	if cfg.AddEndOfText && t.eos < 0 {
		return nil, fmt.Errorf("%w: AddEndOfText requires an end-of-text token", ErrInvalidConfig)
	}

	t.pre = cfg.PreTokenizer
	if t.pre == nil {
		if t.pre, err = NewRegexpPreTokenizer(DefaultPattern); err != nil {
			return nil, err
		}
	}

	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}

	maxKeyLen := cfg.MaxCachedWordLength
	if maxKeyLen <= 0 {
		maxKeyLen = DefaultMaxCachedWordLength
	}

	if t.cache, err = newWordCache(size, maxKeyLen); err != nil {
		return nil, err
	}

	t.defaults = EncodeOptions{
		AddPrefixSpace: cfg.AddPrefixSpace,
		AddBeginOfText: cfg.AddBeginOfText,
		AddEndOfText:   cfg.AddEndOfText,
		SplitWords:     true,
		Normalize:      true,
	}

	return t, nil
}

// Defaults returns the encode flags implied by the construction config.
func (t *Tokenizer) Defaults() EncodeOptions {
	return t.defaults
}

// DecodeDefaults returns the decode flags implied by the construction
// config.
func (t *Tokenizer) DecodeDefaults() DecodeOptions {
	return DecodeOptions{HasPrefixSpace: t.defaults.AddPrefixSpace}
}

// Encode converts text into tokens. The output is deterministic for a
// given input and flags, and independent of cache state.
func (t *Tokenizer) Encode(s string, opts EncodeOptions) ([]Token, error) {
	if opts.AddBeginOfText && t.bos < 0 {
		return nil, fmt.Errorf("%w: no begin-of-text token configured", ErrInvalidConfig)
	}

	if opts.AddEndOfText && t.eos < 0 {
		return nil, fmt.Errorf("%w: no end-of-text token configured", ErrInvalidConfig)
	}

	text := s
	if opts.AddPrefixSpace {
		text = " " + text
	}

	if opts.Normalize && t.norm != nil {
		text = t.norm.Normalize(text)
	}

	var spans []Span
	switch {
	case opts.SplitWords:
		spans = t.pre.Split(text)
	case len(text) > 0:
		spans = []Span{{Offset: 0, Length: len(text)}}
	}

	var tokens []Token
	for _, span := range spans {
		word := text[span.Offset : span.Offset+span.Length]
		for _, sub := range t.encodeWord(word) {
			sub.Offset.Index += span.Offset
			tokens = append(tokens, sub)
		}
	}

	if opts.AddPrefixSpace {
		// report offsets into the unprefixed text: shift everything back by
		// one and let the token holding the synthesized space absorb it
		for i := range tokens {
			if tokens[i].Offset.Index == 0 {
				if tokens[i].Offset.Length > 0 {
					tokens[i].Offset.Length--
				}
			} else {
				tokens[i].Offset.Index--
			}
		}
	}

	if opts.AddBeginOfText {
		tokens = append([]Token{{ID: t.bos, Value: t.bosToken}}, tokens...)
	}

	if opts.AddEndOfText {
		end := len(text)
		if opts.AddPrefixSpace {
			end--
		}

		tokens = append(tokens, Token{ID: t.eos, Value: t.eosToken, Offset: Offset{Index: end}})
	}

	logutil.Trace("encoded", "text", s, "tokens", len(tokens))
	return tokens, nil
}

// EncodeToIDs converts text into token ids.
func (t *Tokenizer) EncodeToIDs(s string, opts EncodeOptions) ([]int32, error) {
	tokens, err := t.Encode(s, opts)
	if err != nil {
		return nil, err
	}

	ids := make([]int32, len(tokens))
	for i, tok := range tokens {
		ids[i] = tok.ID
	}

	return ids, nil
}

// encodeWord resolves one word span: added tokens first, then the cache,
// then the merge loop. Returned offsets are relative to the word start.
func (t *Tokenizer) encodeWord(word string) []Token {
	if id, ok := t.added.ID(word); ok {
		return []Token{{ID: id, Value: word, Offset: Offset{0, len(word)}}}
	}

	if tokens, ok := t.cache.get(word); ok {
		return tokens
	}

	tokens := t.bpe(word)
	t.cache.put(word, tokens)
	return tokens
}

// IDToToken maps an id back to its token string, consulting the vocabulary
// and then the added tokens.
func (t *Tokenizer) IDToToken(id int32) (string, bool) {
	if s, ok := t.vocab.Decode(id); ok {
		return s, true
	}

	return t.added.Token(id)
}

// TokenToID maps a token string to its id. Strings outside the vocabulary
// and added tokens report absence, never an error.
func (t *Tokenizer) TokenToID(s string) (int32, bool) {
	if id, ok := t.vocab.Encode(s); ok {
		return id, true
	}

	return t.added.ID(s)
}

// Normalize applies the configured normalizer, or returns the text
// unchanged when none is set. When a normalizer reshapes text, encode
// offsets refer to this form.
func (t *Tokenizer) Normalize(s string) string {
	if t.norm == nil {
		return s
	}

	return t.norm.Normalize(s)
}

// Vocabulary returns the underlying vocabulary.
func (t *Tokenizer) Vocabulary() *Vocabulary {
	return t.vocab
}

// OccurrenceRanks returns the RoBERTa overlay, or nil.
func (t *Tokenizer) OccurrenceRanks() *OccurrenceRanks {
	return t.ranks
}

func (t *Tokenizer) isSpecial(id int32) bool {
	return (t.bos >= 0 && id == t.bos) || (t.eos >= 0 && id == t.eos)
}
