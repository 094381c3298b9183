package lexical

import "github.com/cognicore/piiscan/pkg/piiscan/lexicon"

var englishStopwords = []string{
	"a", "about", "after", "again", "all", "am", "an", "and", "any", "are",
	"as", "at", "be", "because", "been", "before", "being", "but", "by",
	"can", "could", "did", "do", "does", "doing", "down", "during", "each",
	"for", "from", "had", "has", "have", "having", "he", "her", "here",
	"hers", "him", "his", "how", "i", "if", "in", "into", "is", "it", "its",
	"just", "me", "more", "my", "no", "nor", "not", "of", "off", "on",
	"once", "only", "or", "other", "our", "out", "over", "own", "she",
	"should", "so", "some", "such", "than", "that", "the", "their", "them",
	"then", "there", "these", "they", "this", "those", "through", "to",
	"too", "under", "until", "up", "very", "was", "we", "were", "what",
	"when", "where", "which", "while", "who", "whom", "why", "will", "with",
	"would", "you", "your",
}

var englishLemmas = map[string][]string{
	"be":        {"am", "is", "are", "was", "were", "been", "being"},
	"have":      {"has", "had", "having"},
	"do":        {"does", "did", "done", "doing"},
	"bear":      {"born", "bore", "borne", "bears"},
	"birthday":  {"birthdays", "birthdate", "birth-day"},
	"birth":     {"births"},
	"date":      {"dates", "dated"},
	"celebrate": {"celebrates", "celebrated", "celebrating"},
}

var englishGazetteer = map[string][]string{
	"GPE": {
		"New York", "Los Angeles", "San Francisco", "London", "Paris",
		"Berlin", "Madrid", "Rome", "Tokyo", "Toronto",
	},
	"DATE": {
		"New Year's Day", "Christmas Day", "Independence Day",
	},
}

// DefaultModel returns the built-in English model.
func DefaultModel() *Model {
	return &Model{
		Stopwords: append([]string(nil), englishStopwords...),
		Lexicon:   lexicon.FromMap(englishLemmas),
		Gazetteer: englishGazetteer,
	}
}
