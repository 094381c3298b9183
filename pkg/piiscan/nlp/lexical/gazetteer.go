package lexical

import (
	"strings"

	"github.com/cognicore/piiscan/pkg/piiscan/lexicon"
)

// gazetteer recognizes known phrases by greedy longest match over tokens.
type gazetteer struct {
	phrases map[string]string // folded phrase → label
	maxLen  int               // longest phrase in tokens
}

func newGazetteer(entries map[string][]string) *gazetteer {
	g := &gazetteer{phrases: make(map[string]string), maxLen: 0}
	for label, phrases := range entries {
		if label == "" {
			continue
		}
		for _, p := range phrases {
			parts := phraseTokens(p)
			if len(parts) == 0 {
				continue
			}
			g.phrases[strings.Join(parts, " ")] = label
			if len(parts) > g.maxLen {
				g.maxLen = len(parts)
			}
		}
	}
	return g
}

// phraseTokens tokenizes a phrase the same way text is tokenized, so a
// gazetteer entry like "St. Louis" lines up with the text's tokens.
func phraseTokens(phrase string) []string {
	spans := tokenize(phrase)
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = lexicon.Fold(phrase[s.start:s.end])
	}
	return out
}

// match returns the label and token length of the longest phrase starting
// at tokens[i]. It reports 0 when nothing matches.
func (g *gazetteer) match(folded []string, i int) (string, int) {
	if g == nil || len(g.phrases) == 0 {
		return "", 0
	}
	maxPhrase := g.maxLen
	if remaining := len(folded) - i; maxPhrase > remaining {
		maxPhrase = remaining
	}
	for n := maxPhrase; n >= 1; n-- {
		key := strings.Join(folded[i:i+n], " ")
		if label, ok := g.phrases[key]; ok {
			return label, n
		}
	}
	return "", 0
}
