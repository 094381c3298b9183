package enhance

import "strings"

// Similarity scores how alike keyword and word are, in [0, 1].
// A word containing the keyword scores 1 ("birth" in "birthdate"); otherwise
// the score is the normalized Levenshtein ratio over runes.
func Similarity(keyword, word string) float64 {
	if keyword == "" || word == "" {
		return 0
	}
	if strings.Contains(word, keyword) {
		return 1
	}
	a, b := []rune(keyword), []rune(word)
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein is the edit distance between a and b using two rows.
func levenshtein(a, b []rune) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
