package lexical

import (
	"unicode"
	"unicode/utf8"
)

// span is a token's byte range in the source text.
type span struct {
	start, end int
}

// tokenize splits text into word and punctuation tokens.
//
// A word is a run of letters, digits and combining marks; an apostrophe
// between two word runes stays inside the word ("don't", "o'clock"). Every
// other non-space rune is a token of its own. Offsets are byte offsets.
func tokenize(text string) []span {
	var out []span
	start := -1

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])

		switch {
		case isWordRune(r):
			if start < 0 {
				start = i
			}
		case isApostrophe(r) && start >= 0 && nextIsWordRune(text, i+size):
			// inner apostrophe, keep the word open
		default:
			if start >= 0 {
				out = append(out, span{start, i})
				start = -1
			}
			if !unicode.IsSpace(r) {
				out = append(out, span{i, i + size})
			}
		}
		i += size
	}

	if start >= 0 {
		out = append(out, span{start, len(text)})
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}

func nextIsWordRune(text string, i int) bool {
	if i >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return isWordRune(r)
}

// isASCIIDigits reports whether s is non-empty and only 0-9.
func isASCIIDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isPunctText reports whether every rune of s is punctuation or a symbol.
func isPunctText(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) {
			return false
		}
	}
	return true
}
