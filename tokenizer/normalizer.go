package tokenizer

import "golang.org/x/text/unicode/norm"

// Normalizer rewrites text before pre-tokenization. Implementations must be
// deterministic and safe for concurrent use. When a normalizer changes the
// shape of the text, token offsets refer to the normalized form, so callers
// that need offsets into their original input should not configure a
// shape-changing normalizer.
type Normalizer interface {
	Normalize(s string) string
}

// NFCNormalizer canonically composes text (Unicode NFC).
type NFCNormalizer struct{}

func (NFCNormalizer) Normalize(s string) string {
	return norm.NFC.String(s)
}
