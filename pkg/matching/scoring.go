package matching

import (
	"strings"

	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// Scorer provides the string similarity algorithms used for name matching.
// All methods are pure, score into [0,1] and treat empty input as 0.
type Scorer struct{}

// NewScorer creates a new Scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Baseline scores two names on normalized equality, containment, then a
// bounded character-overlap fallback. The 0.9 containment and 0.89 overlap
// ceilings keep the three cases strictly ordered.
func (s *Scorer) Baseline(query, name string) float64 {
	q := normalizers.Tight(query)
	n := normalizers.Tight(name)
	if q == "" || n == "" {
		return 0
	}
	if q == n {
		return 1.0
	}
	if strings.Contains(n, q) || strings.Contains(q, n) {
		return 0.9
	}

	common := commonRunes(q, n)
	qLen := len([]rune(q))
	score := float64(common) / float64(max(6, qLen))
	return min(score, 0.89)
}

// Dice is the bigram Dice coefficient, capped at 0.89 so it can never collide
// with an equality or containment result from Baseline.
func (s *Scorer) Dice(a, b string) float64 {
	ra := []rune(normalizers.Tight(a))
	rb := []rune(normalizers.Tight(b))
	if len(ra) < 2 || len(rb) < 2 {
		if string(ra) != "" && string(ra) == string(rb) {
			return 0.89
		}
		return 0
	}

	counts := make(map[string]int)
	for i := 0; i+1 < len(ra); i++ {
		counts[string(ra[i:i+2])]++
	}
	intersection := 0
	for i := 0; i+1 < len(rb); i++ {
		bg := string(rb[i : i+2])
		if counts[bg] > 0 {
			counts[bg]--
			intersection++
		}
	}

	score := 2 * float64(intersection) / float64(len(ra)+len(rb)-2)
	return min(score, 0.89)
}

// commonRunes counts how many of a's runes appear in b, multiset-style: each
// rune in b satisfies at most one rune of a.
func commonRunes(a, b string) int {
	pool := make(map[rune]int)
	for _, r := range b {
		pool[r]++
	}
	common := 0
	for _, r := range a {
		if pool[r] > 0 {
			pool[r]--
			common++
		}
	}
	return common
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
