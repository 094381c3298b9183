package nlp

import (
	"github.com/cognicore/piiscan/pkg/piiscan/doc"
)

// Artifacts is the immutable bundle of features derived from one text:
// reconciled entities, tokens, token offsets and lemmas (index-aligned), the
// language, and the Engine that produced them for lexical lookups.
// Accessors return copies, so concurrent readers never race.
type Artifacts struct {
	doc      *doc.Doc
	language string
	engine   Engine
}

// NewArtifacts wraps a reconciled Doc.
func NewArtifacts(d *doc.Doc, language string, engine Engine) *Artifacts {
	return &Artifacts{doc: d, language: language, engine: engine}
}

// Entities returns the reconciled entities ordered by start offset.
func (a *Artifacts) Entities() []doc.Entity {
	return a.doc.Entities()
}

// Tokens returns the token texts.
func (a *Artifacts) Tokens() []string {
	out := make([]string, a.doc.Len())
	for i := range out {
		out[i] = a.doc.Token(i).Text
	}
	return out
}

// Offsets returns the start byte offset of each token.
func (a *Artifacts) Offsets() []int {
	out := make([]int, a.doc.Len())
	for i := range out {
		out[i] = a.doc.Token(i).Start
	}
	return out
}

// Lemmas returns the lemma of each token.
func (a *Artifacts) Lemmas() []string {
	out := make([]string, a.doc.Len())
	for i := range out {
		out[i] = a.doc.Token(i).Lemma
	}
	return out
}

// Len returns the number of tokens.
func (a *Artifacts) Len() int { return a.doc.Len() }

// Text returns the analyzed text.
func (a *Artifacts) Text() string { return a.doc.Text() }

// Language returns the normalized language code.
func (a *Artifacts) Language() string { return a.language }

// Engine returns the engine that produced the artifacts.
func (a *Artifacts) Engine() Engine { return a.engine }

// Doc returns the underlying Doc.
func (a *Artifacts) Doc() *doc.Doc { return a.doc }

// TokenIndex returns the index of the token containing byte offset off.
func (a *Artifacts) TokenIndex(off int) (int, bool) {
	return a.doc.TokenAt(off)
}

// IsStopword asks the producing engine whether word is a stopword in the
// artifacts' language. Without an engine nothing is a stopword.
func (a *Artifacts) IsStopword(word string) bool {
	return a.engine != nil && a.engine.IsStopword(word, a.language)
}

// IsPunct asks the producing engine whether word is punctuation.
func (a *Artifacts) IsPunct(word string) bool {
	return a.engine != nil && a.engine.IsPunct(word, a.language)
}
