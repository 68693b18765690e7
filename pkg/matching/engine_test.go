package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/fern/pkg/models"
)

func testPolicy() Policy {
	return Policy{
		MinScore:     0.55,
		MinGap:       0.15,
		HighScore:    0.95,
		HighGap:      0.20,
		StrongScore:  0.88,
		StrongGap:    0.30,
		NoAliasScore: 0.90,
		NoAliasGap:   0.50,
	}
}

func cands(scores ...float64) []models.ScoredCandidate {
	out := make([]models.ScoredCandidate, len(scores))
	for i, s := range scores {
		out[i] = models.ScoredCandidate{
			ItemNo:   string(rune('A' + i)),
			ItemName: "item",
			Score:    s,
		}
	}
	return out
}

func TestDecideEmptyPool(t *testing.T) {
	d := Decide(nil, "샤블리", false, "", testPolicy())
	assert.False(t, d.Resolved)
	assert.Nil(t, d.Top)
}

func TestDecideDefaultRule(t *testing.T) {
	tests := []struct {
		name     string
		scores   []float64
		resolved bool
	}{
		{
			name:     "clears score and gap",
			scores:   []float64{0.80, 0.60},
			resolved: true,
		},
		{
			name:     "gap exactly at boundary",
			scores:   []float64{0.80, 0.65},
			resolved: true,
		},
		{
			name:     "gap just below boundary",
			scores:   []float64{0.80, 0.66},
			resolved: false,
		},
		{
			name:     "below min score",
			scores:   []float64{0.54, 0.20},
			resolved: false,
		},
		{
			name:     "single candidate needs no gap",
			scores:   []float64{0.56},
			resolved: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(cands(tt.scores...), "샤블리", false, "", testPolicy())
			assert.Equal(t, tt.resolved, d.Resolved)
		})
	}
}

func TestDecideGapMonotonicBoundary(t *testing.T) {
	// Fixed pool, shrinking gap: resolution flips exactly once, at minGap.
	p := testPolicy()
	resolvedSeen := true
	for _, second := range []float64{0.60, 0.64, 0.65, 0.66, 0.70} {
		d := Decide(cands(0.80, second), "샤블리", false, "", p)
		if !d.Resolved {
			resolvedSeen = false
		} else {
			assert.True(t, resolvedSeen, "resolution must not come back once the gap closed")
		}
	}
	assert.True(t, Decide(cands(0.80, 0.65), "샤블리", false, "", p).Resolved)
	assert.False(t, Decide(cands(0.80, 0.66), "샤블리", false, "", p).Resolved)
}

func TestDecideThreeTokenOverlay(t *testing.T) {
	query := "메종 로쉬 샤블리"

	tests := []struct {
		name         string
		scores       []float64
		aliasSupport bool
		resolved     bool
	}{
		{
			name:         "high score high gap",
			scores:       []float64{0.96, 0.70},
			aliasSupport: true,
			resolved:     true,
		},
		{
			name:         "strong score strong gap",
			scores:       []float64{0.89, 0.50},
			aliasSupport: true,
			resolved:     true,
		},
		{
			name:         "default rule no longer enough",
			scores:       []float64{0.80, 0.60},
			aliasSupport: true,
			resolved:     false,
		},
		{
			name:         "no alias support, gap exactly 0.50 accepts",
			scores:       []float64{0.90, 0.40},
			aliasSupport: false,
			resolved:     true,
		},
		{
			name:         "no alias support, gap 0.49 rejects",
			scores:       []float64{0.90, 0.41},
			aliasSupport: false,
			resolved:     false,
		},
		{
			name:         "no alias support, score below bar",
			scores:       []float64{0.89, 0.20},
			aliasSupport: false,
			resolved:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(cands(tt.scores...), query, tt.aliasSupport, "", testPolicy())
			assert.Equal(t, tt.resolved, d.Resolved)
		})
	}
}

func TestDecideVintageSwap(t *testing.T) {
	candidates := []models.ScoredCandidate{
		{ItemNo: "112301", ItemName: "샤또 마고", Score: 0.70},
		{ItemNo: "112401", ItemName: "샤또 마고", Score: 0.68},
	}

	// Gap 0.02 blocks the default rule, but both are the same wine: take the
	// later vintage.
	d := Decide(candidates, "마고", false, "", testPolicy())
	assert.True(t, d.Resolved)
	assert.Equal(t, "112401", d.Top.ItemNo)
	assert.Equal(t, models.MethodVintageSwap, d.Method)
}

func TestDecideVintageSwapNeedsSameWine(t *testing.T) {
	candidates := []models.ScoredCandidate{
		{ItemNo: "112301", ItemName: "샤또 마고", Score: 0.70},
		{ItemNo: "993301", ItemName: "샤블리", Score: 0.68},
	}
	d := Decide(candidates, "마고", false, "", testPolicy())
	assert.False(t, d.Resolved)
}

func TestDecideVintageSwapRespectsHint(t *testing.T) {
	candidates := []models.ScoredCandidate{
		{ItemNo: "112301", ItemName: "샤또 마고", Score: 0.70},
		{ItemNo: "112401", ItemName: "샤또 마고", Score: 0.68},
	}
	d := Decide(candidates, "마고", false, "2023", testPolicy())
	assert.False(t, d.Resolved, "an explicit vintage never gets swapped away")
}

func TestDecideVintageSwapNeedsMinScore(t *testing.T) {
	candidates := []models.ScoredCandidate{
		{ItemNo: "112301", ItemName: "샤또 마고", Score: 0.50},
		{ItemNo: "112401", ItemName: "샤또 마고", Score: 0.49},
	}
	d := Decide(candidates, "마고", false, "", testPolicy())
	assert.False(t, d.Resolved)
}
