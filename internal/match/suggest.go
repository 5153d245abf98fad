package match

import (
	"slices"
	"strings"
)

// DefaultMinScore is the lowest similarity Suggest accepts.
const DefaultMinScore = 0.5

// Candidate is a known name scored against a misspelled one.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is ordered by descending score.
type CandidateList []Candidate

// Rank scores every candidate against name. Ties keep the order of
// candidates, so earlier declarations win.
func Rank(name string, candidates []string) CandidateList {
	out := make(CandidateList, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Candidate{Name: c, Score: score(name, c)})
	}

	slices.SortStableFunc(out, func(a, b Candidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	return out
}

// score is the best of the raw case-insensitive similarity and the
// similarity of the normalized forms.
func score(a, b string) float64 {
	raw := Similarity(strings.ToLower(a), strings.ToLower(b))
	folded := Similarity(Normalize(a), Normalize(b))

	return max(raw, folded)
}

// Best returns the top candidate, or false for an empty list.
func (c CandidateList) Best() (Candidate, bool) {
	if len(c) == 0 {
		return Candidate{}, false
	}

	return c[0], true
}

// AboveThreshold returns the candidates scoring at least minScore.
func (c CandidateList) AboveThreshold(minScore float64) CandidateList {
	var out CandidateList
	for _, cand := range c {
		if cand.Score >= minScore {
			out = append(out, cand)
		}
	}

	return out
}

// Suggest returns the candidate closest to name if it scores at least
// DefaultMinScore.
func Suggest(name string, candidates []string) (string, bool) {
	best, ok := Rank(name, candidates).Best()
	if !ok || best.Score < DefaultMinScore {
		return "", false
	}

	return best.Name, true
}
