package tokenizer

import (
	"strings"
	"unicode/utf8"

	"github.com/parlance-dev/bpetokenizer/logutil"
)

// Decode maps ids back to text. Vocabulary strings invert through the
// byte-level codec; runes outside the 256-rune alphabet contribute their
// UTF-8 bytes verbatim. Added tokens are emitted as-is. Decode is total: it
// never fails, and ids known to neither map decode to nothing.
func (t *Tokenizer) Decode(ids []int32, opts DecodeOptions) (string, error) {
	var sb strings.Builder
	first := true

	for _, id := range ids {
		if (t.bos >= 0 && id == t.bos) || (t.eos >= 0 && id == t.eos) || (t.unk >= 0 && id == t.unk) {
			if opts.WithSpecialTokens {
				sb.WriteString(t.specialString(id))
			}

			continue
		}

		if value, ok := t.added.Token(id); ok {
			if first && opts.HasPrefixSpace {
				value = strings.TrimPrefix(value, " ")
			}

			sb.WriteString(value)
			first = false
			continue
		}

		value, ok := t.vocab.Decode(id)
		if !ok {
			continue
		}

		chunk := make([]byte, 0, len(value))
		for _, r := range value {
			if b, ok := runeToByte[r]; ok {
				chunk = append(chunk, b)
			} else {
				chunk = utf8.AppendRune(chunk, r)
			}
		}

		if first && opts.HasPrefixSpace && len(chunk) > 0 && chunk[0] == ' ' {
			chunk = chunk[1:]
		}

		sb.Write(chunk)
		first = false
	}

	logutil.Trace("decoded", "ids", len(ids), "text", sb.String())
	return sb.String(), nil
}

func (t *Tokenizer) specialString(id int32) string {
	switch {
	case t.bos >= 0 && id == t.bos:
		return t.bosToken
	case t.eos >= 0 && id == t.eos:
		return t.eosToken
	case t.unk >= 0 && id == t.unk:
		return t.unkToken
	}

	return ""
}
