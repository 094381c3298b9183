// Package enhance implements context-based score enhancement for recognizer
// results.
package enhance

import (
	"strings"

	"github.com/cognicore/piiscan/pkg/piiscan/lexicon"
	"github.com/cognicore/piiscan/pkg/piiscan/nlp"
	"github.com/cognicore/piiscan/pkg/piiscan/recognizer"
)

// Default enhancement parameters.
const (
	DefaultSimilarityThreshold = 0.65
	DefaultSimilarityFactor    = 0.35
	DefaultMinScoreWithContext = 0.4
	DefaultPrefixCount         = 5
	DefaultSuffixCount         = 0
)

// LemmaEnhancer boosts a result when one of the context words resembles a
// word in the window around the match.
//
// The window holds up to PrefixCount words before the match and SuffixCount
// words after it. Stopwords and punctuation are skipped and do not count
// toward the window size. Each window word is compared both as written and
// by lemma, so "born" matches whether the lexicon maps it to "bear" or not.
type LemmaEnhancer struct {
	// SimilarityThreshold is the minimum similarity for a context word to count.
	SimilarityThreshold float64
	// SimilarityFactor is added to the score of a supported result.
	SimilarityFactor float64
	// MinScoreWithContext is the floor for a supported result's score.
	MinScoreWithContext float64
	PrefixCount         int
	SuffixCount         int
}

var _ recognizer.ContextEnhancer = (*LemmaEnhancer)(nil)

// New returns an enhancer with the default parameters.
func New() *LemmaEnhancer {
	return &LemmaEnhancer{
		SimilarityThreshold: DefaultSimilarityThreshold,
		SimilarityFactor:    DefaultSimilarityFactor,
		MinScoreWithContext: DefaultMinScoreWithContext,
		PrefixCount:         DefaultPrefixCount,
		SuffixCount:         DefaultSuffixCount,
	}
}

// Enhance implements recognizer.ContextEnhancer. The input slice is not
// modified.
func (e *LemmaEnhancer) Enhance(text string, results []recognizer.Result, artifacts *nlp.Artifacts, ctx recognizer.Context) []recognizer.Result {
	out := make([]recognizer.Result, len(results))
	copy(out, results)
	if artifacts == nil || len(ctx.Words) == 0 {
		return out
	}

	keywords := make([]string, 0, len(ctx.Words))
	for _, w := range ctx.Words {
		if w = lexicon.Fold(strings.TrimSpace(w)); w != "" {
			keywords = append(keywords, w)
		}
	}

	prefix := pick(ctx.PrefixCount, e.PrefixCount)
	suffix := pick(ctx.SuffixCount, e.SuffixCount)
	minScore := e.MinScoreWithContext
	if ctx.MinScoreWithContext > 0 {
		minScore = ctx.MinScoreWithContext
	}

	for i := range out {
		r := &out[i]
		window := contextWindow(artifacts, r.Start, r.End, prefix, suffix)
		word, sim := bestMatch(keywords, window)
		if sim < e.SimilarityThreshold || word == "" {
			continue
		}

		score := r.Score + e.SimilarityFactor
		if score < minScore {
			score = minScore
		}
		if score > 1 {
			score = 1
		}
		r.Boost(score, word)
	}
	return out
}

func pick(override, fallback int) int {
	if override > 0 {
		return override
	}
	return fallback
}

// contextWindow collects the folded text and lemma of up to prefix content
// tokens before [start, end) and suffix content tokens after it.
func contextWindow(a *nlp.Artifacts, start, end, prefix, suffix int) []string {
	first, ok := a.TokenIndex(start)
	if !ok {
		return nil
	}
	last := first
	if end > start {
		if i, ok := a.TokenIndex(end - 1); ok {
			last = i
		}
	}

	tokens := a.Tokens()
	lemmas := a.Lemmas()
	var window []string
	add := func(i int) bool {
		if a.IsStopword(tokens[i]) || a.IsPunct(tokens[i]) {
			return false
		}
		window = append(window, lexicon.Fold(tokens[i]))
		if lemma := lexicon.Fold(lemmas[i]); lemma != "" {
			window = append(window, lemma)
		}
		return true
	}

	for i, n := first-1, 0; i >= 0 && n < prefix; i-- {
		if add(i) {
			n++
		}
	}
	for i, n := last+1, 0; i < len(tokens) && n < suffix; i++ {
		if add(i) {
			n++
		}
	}
	return window
}

// bestMatch returns the keyword most similar to any window word and that
// similarity. The first keyword wins ties.
func bestMatch(keywords, window []string) (string, float64) {
	best, bestSim := "", 0.0
	for _, k := range keywords {
		for _, w := range window {
			if sim := Similarity(k, w); sim > bestSim {
				best, bestSim = k, sim
			}
		}
	}
	return best, bestSim
}
