package lexicon

import (
	"os"
	"strings"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// Lexicon maps inflected word forms to their lemma:
// - Inflections: "born" -> "bear", "was" -> "be"
// - Spelling variants: "birthdate" -> "birthday"
// - Abbreviations: "d.o.b" -> "dob"
//
// Lookups are case-insensitive (Unicode case folding). A word missing from the
// lexicon is its own lemma.
type Lexicon struct {
	// lemma -> all forms (including the lemma itself)
	// Example: "be" -> ["be", "is", "was", "were"]
	forms map[string][]string

	// form -> lemma
	// Example: "was" -> "be"
	reverseIndex map[string]string
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		forms:        make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// Fold returns the case-folded form used for every lexicon lookup.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// LoadFromYAML loads lemma groups from a YAML file.
//
// Expected format:
//
//	lemmas:
//	  - lemma: be
//	    forms: [is, was, were, been]
//	  - lemma: bear
//	    forms: [born, bore]
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Lemmas []struct {
			Lemma string   `yaml:"lemma"`
			Forms []string `yaml:"forms"`
		} `yaml:"lemmas"`
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	lex := New()
	for _, entry := range config.Lemmas {
		if strings.TrimSpace(entry.Lemma) == "" {
			continue
		}
		lex.AddGroup(entry.Lemma, entry.Forms)
	}

	return lex, nil
}

// FromMap builds a lexicon from a lemma -> forms map.
func FromMap(groups map[string][]string) *Lexicon {
	lex := New()
	for lemma, forms := range groups {
		lex.AddGroup(lemma, forms)
	}
	return lex
}

// AddGroup registers a lemma and its forms. The lemma is always the first
// entry of its form list. Re-adding a lemma replaces its previous forms.
func (l *Lexicon) AddGroup(lemma string, forms []string) {
	lemma = Fold(lemma)

	if oldForms, exists := l.forms[lemma]; exists {
		for _, f := range oldForms {
			delete(l.reverseIndex, f)
		}
	}

	normalized := make([]string, 0, len(forms)+1)
	seen := make(map[string]bool)

	normalized = append(normalized, lemma)
	seen[lemma] = true

	for _, f := range forms {
		f = Fold(f)
		if !seen[f] {
			normalized = append(normalized, f)
			seen[f] = true
		}
	}

	l.forms[lemma] = normalized

	for _, f := range normalized {
		l.reverseIndex[f] = lemma
	}
}

// Lemma returns the lemma of word, or the folded word itself when unknown.
//
// Examples:
//   - Lemma("Born") -> "bear"
//   - Lemma("Berlin") -> "berlin"
func (l *Lexicon) Lemma(word string) string {
	word = Fold(word)
	if l == nil {
		return word
	}
	if lemma, ok := l.reverseIndex[word]; ok {
		return lemma
	}
	return word
}

// Forms returns every known form sharing word's lemma, lemma first.
// Unknown words return a slice holding only the folded word.
func (l *Lexicon) Forms(word string) []string {
	word = Fold(word)
	if l == nil {
		return []string{word}
	}
	if forms, ok := l.forms[word]; ok {
		return forms
	}
	if lemma, ok := l.reverseIndex[word]; ok {
		if forms, ok := l.forms[lemma]; ok {
			return forms
		}
	}
	return []string{word}
}

// Has reports whether word is a known form.
func (l *Lexicon) Has(word string) bool {
	if l == nil {
		return false
	}
	_, ok := l.reverseIndex[Fold(word)]
	return ok
}

// Len returns the number of lemma groups.
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.forms)
}
