package match

import "sort"

// DefaultMinSimilarity is the similarity below which candidates are not suggested.
const DefaultMinSimilarity = 0.6

// Suggestion is a candidate key together with its similarity to the query.
type Suggestion struct {
	Key   string
	Score float64
}

// Rank scores every candidate against key and returns those at or above
// minScore, best first. Ties keep candidate order.
func Rank(key string, candidates []string, minScore float64) []Suggestion {
	norm := NormalizeKey(key)

	var out []Suggestion

	for _, c := range candidates {
		score := Similarity(norm, NormalizeKey(c))
		if score < minScore {
			continue
		}

		out = append(out, Suggestion{Key: c, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out
}

// Suggest returns up to limit candidate keys closest to key.
func Suggest(key string, candidates []string, limit int) []string {
	ranked := Rank(key, candidates, DefaultMinSimilarity)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	keys := make([]string, 0, len(ranked))
	for _, s := range ranked {
		keys = append(keys, s.Key)
	}

	return keys
}
