// Package doc holds the tokenized, tagged view of one text: tokens with their
// byte offsets and lemmas, and the labeled entity spans over them.
//
// A Doc is immutable once constructed. Operations that change the entity set
// (see temporal.Merge) return a new Doc that shares the token slice.
package doc

import (
	"errors"
	"fmt"
	"sort"
)

// Source records which collaborator produced an entity.
type Source int

const (
	// SourceTagger marks entities produced by the statistical tagger.
	SourceTagger Source = iota
	// SourceTemporal marks entities synthesized from temporal parser matches.
	SourceTemporal
)

func (s Source) String() string {
	switch s {
	case SourceTagger:
		return "tagger"
	case SourceTemporal:
		return "temporal"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// Span is a half-open byte interval [Start, End) over the text together with
// the half-open token interval [TokenStart, TokenEnd) it covers.
type Span struct {
	Start      int
	End        int
	TokenStart int
	TokenEnd   int
}

// Valid reports whether both intervals are non-empty.
func (s Span) Valid() bool {
	return s.Start < s.End && s.TokenStart < s.TokenEnd
}

// Overlaps reports whether the byte ranges of s and o intersect.
// Adjacent spans do not overlap.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && s.End > o.Start
}

// Entity is a labeled span.
type Entity struct {
	Span
	Label  string
	Source Source
}

// Token is one token of the text.
type Token struct {
	Text  string
	Lemma string
	Start int // byte offset of the first byte
	End   int // byte offset one past the last byte
}

// Doc is an ordered token sequence plus the entities tagged over it.
type Doc struct {
	text     string
	tokens   []Token
	entities []Entity
}

// New builds a Doc. Tokens must be in text order; entities are copied and
// sorted by start offset.
func New(text string, tokens []Token, entities []Entity) *Doc {
	toks := make([]Token, len(tokens))
	copy(toks, tokens)
	return &Doc{text: text, tokens: toks, entities: sortedCopy(entities)}
}

// Validate checks the token and entity invariants.
func (d *Doc) Validate() error {
	prevEnd := 0
	for i, t := range d.tokens {
		if t.Start < prevEnd || t.End <= t.Start || t.End > len(d.text) {
			return fmt.Errorf("token %d [%d,%d) out of order or out of range", i, t.Start, t.End)
		}
		if d.text[t.Start:t.End] != t.Text {
			return fmt.Errorf("token %d text %q does not match offsets", i, t.Text)
		}
		prevEnd = t.End
	}
	for i, e := range d.entities {
		if !e.Valid() {
			return fmt.Errorf("entity %d (%s) has an empty span", i, e.Label)
		}
		if e.TokenEnd > len(d.tokens) {
			return fmt.Errorf("entity %d (%s) token range exceeds doc", i, e.Label)
		}
		if d.tokens[e.TokenStart].Start != e.Start || d.tokens[e.TokenEnd-1].End != e.End {
			return fmt.Errorf("entity %d (%s) byte range not aligned to its tokens", i, e.Label)
		}
		if e.Label == "" {
			return errors.New("entity label is required")
		}
	}
	return nil
}

// Text returns the source text.
func (d *Doc) Text() string { return d.text }

// Len returns the number of tokens.
func (d *Doc) Len() int { return len(d.tokens) }

// Token returns the i-th token.
func (d *Doc) Token(i int) Token { return d.tokens[i] }

// Tokens returns a copy of the token sequence.
func (d *Doc) Tokens() []Token {
	out := make([]Token, len(d.tokens))
	copy(out, d.tokens)
	return out
}

// Entities returns a copy of the entities, ordered by start offset.
func (d *Doc) Entities() []Entity {
	out := make([]Entity, len(d.entities))
	copy(out, d.entities)
	return out
}

// WithEntities returns a Doc over the same text and tokens with a different
// entity set. The receiver is not modified.
func (d *Doc) WithEntities(entities []Entity) *Doc {
	return &Doc{text: d.text, tokens: d.tokens, entities: sortedCopy(entities)}
}

// SpanText returns the text covered by s.
func (d *Doc) SpanText(s Span) string {
	return d.text[s.Start:s.End]
}

// CharSpan resolves the byte range [start, end) to the token range it covers.
// Alignment is strict: start must be the first byte of a token and end must be
// one past the last byte of a token. It reports false otherwise, including for
// empty or out-of-range input.
func (d *Doc) CharSpan(start, end int) (Span, bool) {
	if start < 0 || start >= end || end > len(d.text) {
		return Span{}, false
	}
	first := sort.Search(len(d.tokens), func(i int) bool { return d.tokens[i].Start >= start })
	if first == len(d.tokens) || d.tokens[first].Start != start {
		return Span{}, false
	}
	last := sort.Search(len(d.tokens), func(i int) bool { return d.tokens[i].End >= end })
	if last == len(d.tokens) || d.tokens[last].End != end || last < first {
		return Span{}, false
	}
	return Span{Start: start, End: end, TokenStart: first, TokenEnd: last + 1}, true
}

// TokenAt returns the index of the token containing byte offset off.
func (d *Doc) TokenAt(off int) (int, bool) {
	i := sort.Search(len(d.tokens), func(i int) bool { return d.tokens[i].End > off })
	if i == len(d.tokens) || d.tokens[i].Start > off {
		return 0, false
	}
	return i, true
}

// TokenLabels returns, per token index, the label of the entity covering it
// or "" when the token is outside every entity.
func (d *Doc) TokenLabels() []string {
	labels := make([]string, len(d.tokens))
	for _, e := range d.entities {
		for i := e.TokenStart; i < e.TokenEnd && i < len(labels); i++ {
			labels[i] = e.Label
		}
	}
	return labels
}

func sortedCopy(entities []Entity) []Entity {
	out := make([]Entity, len(entities))
	copy(out, entities)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start == out[j].Start {
			return out[i].End < out[j].End
		}
		return out[i].Start < out[j].Start
	})
	return out
}
