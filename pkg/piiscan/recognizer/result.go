// Package recognizer turns NLP artifacts into PII findings.
//
// A Recognizer selects tagged entities through a label-group table, scores
// them with a fixed base score, and hands the results to a ContextEnhancer
// that may raise scores when context keywords appear near a match.
package recognizer

import "fmt"

// Explanation records how a result's score came about.
type Explanation struct {
	Recognizer         string  `json:"recognizer"`
	OriginalScore      float64 `json:"original_score"`
	Score              float64 `json:"score"`
	TextualExplanation string  `json:"textual_explanation,omitempty"`
	// Set by context enhancement.
	SupportiveContextWord   string  `json:"supportive_context_word,omitempty"`
	ScoreContextImprovement float64 `json:"score_context_improvement,omitempty"`
}

// Result is one finding: an entity type over the byte range [Start, End).
type Result struct {
	EntityType  string      `json:"entity_type"`
	Start       int         `json:"start"`
	End         int         `json:"end"`
	Score       float64     `json:"score"`
	Explanation Explanation `json:"explanation"`
}

// Boost raises the score to score and records the context word that
// justified it. Lower scores are ignored.
func (r *Result) Boost(score float64, word string) {
	if score <= r.Score {
		return
	}
	r.Explanation.ScoreContextImprovement += score - r.Score
	r.Explanation.SupportiveContextWord = word
	r.Explanation.Score = score
	r.Score = score
}

func (r Result) String() string {
	return fmt.Sprintf("%s[%d:%d] %.2f", r.EntityType, r.Start, r.End, r.Score)
}

// newResult builds a result carrying its base score.
func newResult(entity string, start, end int, score float64, recognizer, explanation string) Result {
	return Result{
		EntityType: entity,
		Start:      start,
		End:        end,
		Score:      score,
		Explanation: Explanation{
			Recognizer:         recognizer,
			OriginalScore:      score,
			Score:              score,
			TextualExplanation: explanation,
		},
	}
}
