// Package matching implements the fuzzy item-resolution core: candidate
// generation, similarity scoring, signal combination and the auto-confirm
// versus needs-review decision policy.
package matching

import (
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// Policy holds the decision thresholds. These are tuned policy values, not
// derived ones; they live in config so operators can move them without a
// deploy.
type Policy struct {
	MinScore float64 // floor for any auto-confirm (default 0.55)
	MinGap   float64 // margin over the runner-up (default 0.15)

	// Stricter overlay for queries of three or more tokens. A long query is
	// specific: a near-miss is more likely a different, similar product.
	HighScore   float64 // 0.95
	HighGap     float64 // 0.20
	StrongScore float64 // 0.88
	StrongGap   float64 // 0.30

	// Applied instead of the overlay when the query has no learned-alias
	// support at all.
	NoAliasScore float64 // 0.90
	NoAliasGap   float64 // 0.50
}

// Decision is the terminal outcome for one candidate pool.
type Decision struct {
	Resolved bool
	Top      *models.ScoredCandidate
	Method   string
}

// Decide applies the threshold policy to a sorted candidate list. The list
// must already be score-sorted descending with tie-break boosts applied.
func Decide(candidates []models.ScoredCandidate, query string, hasAliasSupport bool, vintageHint string, p Policy) Decision {
	if len(candidates) == 0 {
		return Decision{}
	}

	top := candidates[0]
	gap := top.Score
	if len(candidates) > 1 {
		gap = top.Score - candidates[1].Score
	}

	if confirms(top.Score, gap, len(candidates), query, hasAliasSupport, p) {
		return Decision{Resolved: true, Top: &top, Method: models.MethodFuzzy}
	}

	// Same wine, two vintages, blocked only by the gap between them: take the
	// later vintage rather than bothering a human with a non-choice.
	if swap, ok := vintageSwap(candidates, vintageHint, p); ok {
		return Decision{Resolved: true, Top: swap, Method: models.MethodVintageSwap}
	}

	return Decision{}
}

func confirms(score, gap float64, poolSize int, query string, hasAliasSupport bool, p Policy) bool {
	if len(normalizers.Tokens(query)) >= 3 {
		if !hasAliasSupport {
			return score >= p.NoAliasScore && gapOK(gap, poolSize, p.NoAliasGap)
		}
		return (score >= p.HighScore && gapOK(gap, poolSize, p.HighGap)) ||
			(score >= p.StrongScore && gapOK(gap, poolSize, p.StrongGap))
	}
	return score >= p.MinScore && gapOK(gap, poolSize, p.MinGap)
}

func gapOK(gap float64, poolSize int, required float64) bool {
	return poolSize < 2 || gap >= required
}

func vintageSwap(candidates []models.ScoredCandidate, vintageHint string, p Policy) (*models.ScoredCandidate, bool) {
	if vintageHint != "" || len(candidates) < 2 {
		return nil, false
	}
	first, second := candidates[0], candidates[1]
	if first.Score < p.MinScore {
		return nil, false
	}
	key := groupKey(first.ItemName)
	if key == "" || key != groupKey(second.ItemName) {
		return nil, false
	}

	v1, v2 := DecodeVintage(first.ItemNo), DecodeVintage(second.ItemNo)
	if v1 == 0 || v2 == 0 || v1 == v2 {
		return nil, false
	}

	later := first
	if v2 > v1 {
		later = second
	}
	if later.Score < p.MinScore {
		return nil, false
	}
	return &later, true
}
