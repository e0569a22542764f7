// file: internal/matcher/fuzzy.go
// version: 2.0.0
// guid: 9011f0c1-1466-497f-b031-e91db56c2bc9

package matcher

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/classificacaofinal/classificacao/internal/models"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MinSuggestionScore is the lowest score SuggestNames reports.
const MinSuggestionScore = 60

// Suggestion is a candidate name close to a query that matched nothing exactly.
type Suggestion struct {
	Name           string `json:"name"`
	NormalizedName string `json:"normalized_name"`
	Score          int    `json:"score"`
	Appearances    int    `json:"appearances"`
}

// LevenshteinDistance computes the edit distance between two strings, per rune.
func LevenshteinDistance(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// Single-row DP
	prev := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr := make([]int, lb+1)
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, min(prev[j]+1, prev[j-1]+cost))
		}
		prev = curr
	}
	return prev[lb]
}

// ScoreMatch scores how close two candidate names are after normalization. Returns 0-100.
func ScoreMatch(query, target string) int {
	q := Normalize(query)
	t := Normalize(target)
	if q == "" || t == "" {
		return 0
	}

	if q == t {
		return 100
	}

	score := 0

	if strings.HasPrefix(t, q) {
		score = 90
	}

	if strings.Contains(t, q) {
		// Shorter targets are more specific
		ratio := float64(utf8.RuneCountInString(q)) / float64(utf8.RuneCountInString(t))
		score = max(score, 60+int(ratio*25))
	}

	// Every query word starts some target word: "jo silva" vs "joao da silva"
	if tokensArePrefixes(strings.Fields(q), strings.Fields(t)) {
		score = max(score, 75)
	}

	dist := LevenshteinDistance(q, t)
	maxLen := max(utf8.RuneCountInString(q), utf8.RuneCountInString(t))
	similarity := 1.0 - float64(dist)/float64(maxLen)
	if fuzzyScore := int(similarity * 85); fuzzyScore > 0 {
		score = max(score, fuzzyScore)
	}

	return score
}

func tokensArePrefixes(query, target []string) bool {
	if len(query) == 0 {
		return false
	}
	for _, qw := range query {
		found := false
		for _, tw := range target {
			if strings.HasPrefix(tw, qw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SuggestNames ranks the distinct candidate names in records by closeness to
// query and returns at most limit of them, best first.
func SuggestNames(records []models.Result, query string, limit int) []Suggestion {
	suggestions := make([]Suggestion, 0)
	q := Normalize(query)
	if q == "" || limit <= 0 {
		return suggestions
	}

	var keys []string
	byKey := make(map[string]*Suggestion)
	for _, r := range records {
		key := Normalize(r.Name)
		if key == "" {
			continue
		}
		s, ok := byKey[key]
		if !ok {
			s = &Suggestion{Name: strings.TrimSpace(r.Name), NormalizedName: key}
			byKey[key] = s
			keys = append(keys, key)
		}
		s.Appearances++
	}

	for _, key := range keys {
		byKey[key].Score = ScoreMatch(q, key)
	}
	// Subsequence hits ("jsilva" in "joao silva") are worth a suggestion even
	// when the edit distance is large.
	for _, rank := range fuzzy.RankFind(q, keys) {
		s := byKey[rank.Target]
		s.Score = max(s.Score, MinSuggestionScore)
	}

	for _, key := range keys {
		if s := byKey[key]; s.Score >= MinSuggestionScore {
			suggestions = append(suggestions, *s)
		}
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Score != suggestions[j].Score {
			return suggestions[i].Score > suggestions[j].Score
		}
		return suggestions[i].NormalizedName < suggestions[j].NormalizedName
	})
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}
