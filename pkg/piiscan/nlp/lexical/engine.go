// Package lexical is a rule-based nlp.Engine: a tokenizer with byte offsets,
// lexicon lemmatization, and a tagger built from gazetteer phrases and numeral
// shapes. It needs no model files, which makes it the default engine and a
// deterministic stand-in for a statistical tagger in tests.
package lexical

import (
	"errors"
	"sort"
	"strconv"
	"sync"

	"github.com/cognicore/piiscan/pkg/piiscan/doc"
	"github.com/cognicore/piiscan/pkg/piiscan/lexicon"
	"github.com/cognicore/piiscan/pkg/piiscan/nlp"
)

// Labels assigned to bare numerals.
const (
	LabelCardinal = "CARDINAL"
	LabelDate     = "DATE"
)

// ErrEngineClosed is returned by Process after Close.
var ErrEngineClosed = errors.New("lexical engine closed")

// Model is the per-language configuration of the engine.
type Model struct {
	Stopwords []string
	// Punctuation lists extra words treated as punctuation. Tokens made only
	// of punctuation or symbol runes are always punctuation.
	Punctuation []string
	Lexicon     *lexicon.Lexicon
	// Gazetteer maps an entity label to the phrases tagged with it.
	Gazetteer map[string][]string
}

type model struct {
	stopwords map[string]struct{}
	punct     map[string]struct{}
	lex       *lexicon.Lexicon
	gaz       *gazetteer
}

func compile(m *Model) *model {
	c := &model{
		stopwords: make(map[string]struct{}, len(m.Stopwords)),
		punct:     make(map[string]struct{}, len(m.Punctuation)),
		lex:       m.Lexicon,
		gaz:       newGazetteer(m.Gazetteer),
	}
	for _, w := range m.Stopwords {
		c.stopwords[lexicon.Fold(w)] = struct{}{}
	}
	for _, w := range m.Punctuation {
		c.punct[lexicon.Fold(w)] = struct{}{}
	}
	return c
}

// Engine implements nlp.Engine over a fixed set of language models.
// It is safe for concurrent use.
type Engine struct {
	mu     sync.RWMutex
	models map[string]*model
	closed bool
}

var _ nlp.Engine = (*Engine)(nil)

// New compiles the given models, keyed by language code. Codes are
// normalized ("en-US" and "en" name the same model). Nil models are skipped.
func New(models map[string]*Model) *Engine {
	e := &Engine{models: make(map[string]*model, len(models))}
	for lang, m := range models {
		if m == nil {
			continue
		}
		e.models[nlp.NormalizeLanguage(lang)] = compile(m)
	}
	return e
}

// NewDefault returns an engine with only the built-in English model.
func NewDefault() *Engine {
	return New(map[string]*Model{"en": DefaultModel()})
}

// Languages returns the loaded language codes, sorted.
func (e *Engine) Languages() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.models))
	for lang := range e.models {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Close releases the models. Later Process calls fail with ErrEngineClosed
// and lexical queries report false.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.models = nil
	return nil
}

func (e *Engine) model(language string) (*model, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, ErrEngineClosed
	}
	m, ok := e.models[language]
	if !ok {
		return nil, &nlp.UnsupportedLanguageError{Language: language}
	}
	return m, nil
}

// Process tokenizes, lemmatizes and tags text.
func (e *Engine) Process(text, language string) (*doc.Doc, error) {
	m, err := e.model(nlp.NormalizeLanguage(language))
	if err != nil {
		return nil, err
	}

	spans := tokenize(text)
	tokens := make([]doc.Token, len(spans))
	folded := make([]string, len(spans))
	for i, s := range spans {
		word := text[s.start:s.end]
		folded[i] = lexicon.Fold(word)
		tokens[i] = doc.Token{
			Text:  word,
			Lemma: m.lex.Lemma(word),
			Start: s.start,
			End:   s.end,
		}
	}

	return doc.New(text, tokens, m.tag(tokens, folded)), nil
}

// tag walks the tokens left to right. A gazetteer phrase takes precedence
// over a numeral at the same position; tagged tokens are never re-tagged.
func (m *model) tag(tokens []doc.Token, folded []string) []doc.Entity {
	var ents []doc.Entity
	for i := 0; i < len(tokens); {
		if label, n := m.gaz.match(folded, i); n > 0 {
			ents = append(ents, entity(tokens, i, i+n, label))
			i += n
			continue
		}
		if label := numeralLabel(tokens[i].Text); label != "" {
			ents = append(ents, entity(tokens, i, i+1, label))
		}
		i++
	}
	return ents
}

func entity(tokens []doc.Token, first, last int, label string) doc.Entity {
	return doc.Entity{
		Span: doc.Span{
			Start:      tokens[first].Start,
			End:        tokens[last-1].End,
			TokenStart: first,
			TokenEnd:   last,
		},
		Label:  label,
		Source: doc.SourceTagger,
	}
}

// numeralLabel tags bare ASCII numerals: four-digit values in 1900..2999 look
// like years and become DATE, everything else is CARDINAL. The lower bound
// matches the numeral filter of temporal.Merger so a year it rejects is not
// tagged as a date here either.
func numeralLabel(word string) string {
	if !isASCIIDigits(word) {
		return ""
	}
	if len(word) == 4 {
		if v, err := strconv.Atoi(word); err == nil && v >= 1900 && v <= 2999 {
			return LabelDate
		}
	}
	return LabelCardinal
}

// IsStopword reports whether word is a stopword in language.
func (e *Engine) IsStopword(word, language string) bool {
	m, err := e.model(nlp.NormalizeLanguage(language))
	if err != nil {
		return false
	}
	_, ok := m.stopwords[lexicon.Fold(word)]
	return ok
}

// IsPunct reports whether word is punctuation in language.
func (e *Engine) IsPunct(word, language string) bool {
	m, err := e.model(nlp.NormalizeLanguage(language))
	if err != nil {
		return false
	}
	if isPunctText(word) {
		return true
	}
	_, ok := m.punct[lexicon.Fold(word)]
	return ok
}
