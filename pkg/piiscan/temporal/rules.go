package temporal

import (
	"regexp"
	"sort"
)

const monthPattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

// Rule is one pattern of a RuleParser.
type Rule struct {
	Name    string
	Type    string
	Pattern *regexp.Regexp
}

// DefaultRules covers the common English date and time shapes.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "iso_date", Type: "DATE", Pattern: regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b`)},
		{Name: "numeric_date", Type: "DATE", Pattern: regexp.MustCompile(`\b\d{1,2}[/.]\d{1,2}[/.](?:\d{4}|\d{2})\b`)},
		{Name: "month_day_year", Type: "DATE", Pattern: regexp.MustCompile(`(?i)\b` + monthPattern + `\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?\b`)},
		{Name: "day_month_year", Type: "DATE", Pattern: regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?` + monthPattern + `\b(?:,?\s+\d{4}\b)?`)},
		{Name: "month_year", Type: "DATE", Pattern: regexp.MustCompile(`(?i)\b` + monthPattern + `\.?\s+\d{4}\b`)},
		{Name: "year", Type: "DATE", Pattern: regexp.MustCompile(`\b\d{4,5}\b`)},
		{Name: "clock_time", Type: "TIME", Pattern: regexp.MustCompile(`(?i)\b\d{1,2}(?::\d{2}){1,2}(?:\s?[ap]m)?\b`)},
		{Name: "meridiem_time", Type: "TIME", Pattern: regexp.MustCompile(`(?i)\b\d{1,2}\s?[ap]m\b`)},
		{Name: "relative_day", Type: "DATE", Pattern: regexp.MustCompile(`(?i)\b(?:today|yesterday|tomorrow|tonight)\b`)},
	}
}

// RuleParser is a regular-expression Parser. It reports every rule match,
// overlapping ones included, ordered by start offset with longer matches
// first on ties.
type RuleParser struct {
	rules []Rule
}

// NewRuleParser returns a parser over rules, or DefaultRules when rules is empty.
func NewRuleParser(rules ...Rule) *RuleParser {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &RuleParser{rules: rules}
}

// Parse implements Parser.
func (p *RuleParser) Parse(text string) []Match {
	if text == "" {
		return nil
	}
	var out []Match
	seen := make(map[[2]int]struct{})
	for _, r := range p.rules {
		for _, idx := range r.Pattern.FindAllStringIndex(text, -1) {
			key := [2]int{idx[0], idx[1]}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, Match{Start: idx[0], End: idx[1], Type: r.Type})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start == out[j].Start {
			return out[i].End > out[j].End
		}
		return out[i].Start < out[j].Start
	})
	return out
}
