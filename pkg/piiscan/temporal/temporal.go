// Package temporal reconciles date and time expressions found by a temporal
// parser with the entities a tagger already attached to a doc.Doc.
//
// Parser matches arrive as raw byte ranges that may not line up with token
// boundaries and may be spurious. Merge keeps the matches that can be
// represented as entities and resolves every overlap, so the returned Doc has
// pairwise disjoint entity spans.
package temporal

// Match is one raw temporal expression reported by a Parser.
type Match struct {
	Start int    // byte offset, inclusive
	End   int    // byte offset, exclusive
	Type  string // e.g. DATE, TIME, DURATION
}

// Parser finds temporal expressions in text. Matches are returned in the
// parser's own order, which Merge treats as precedence order.
type Parser interface {
	Parse(text string) []Match
}

// ParserFunc adapts a function to the Parser interface.
type ParserFunc func(text string) []Match

// Parse calls f(text).
func (f ParserFunc) Parse(text string) []Match { return f(text) }
