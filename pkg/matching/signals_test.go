package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/fern/pkg/models"
)

var testNow = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func TestCombineWeakAliasBonus(t *testing.T) {
	sig := SignalSet{
		WeakAliasItems: map[string]bool{"ITEM-1": true},
		Now:            testNow,
	}

	with, bd := Combine(0.5, "ITEM-1", sig)
	without, _ := Combine(0.5, "ITEM-2", sig)

	assert.InDelta(t, 0.15, with-without, 1e-9)
	assert.InDelta(t, 0.15, bd.LearnedBonus, 1e-9)
}

func TestCombineSelectionBonusCap(t *testing.T) {
	sig := SignalSet{
		SelectionBonuses: map[string]float64{"ITEM-1": 0.35},
		Now:              testNow,
	}

	score, bd := Combine(0.5, "ITEM-1", sig)
	assert.InDelta(t, 0.10, bd.SearchBonus, 1e-9)
	assert.InDelta(t, 0.60, score, 1e-9)
}

func TestCombineRecencyBonus(t *testing.T) {
	tests := []struct {
		name     string
		daysAgo  int
		expected float64
	}{
		{
			name:     "shipped today",
			daysAgo:  0,
			expected: 0.05,
		},
		{
			name:     "forty days ago",
			daysAgo:  40,
			expected: 0.03,
		},
		{
			name:     "past the decay horizon",
			daysAgo:  200,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := SignalSet{
				LastShipped: map[string]time.Time{"XX9901": testNow.AddDate(0, 0, -tt.daysAgo)},
				Now:         testNow,
			}
			_, bd := Combine(0.5, "XX9901", sig)
			assert.InDelta(t, tt.expected, bd.RecencyBonus, 1e-9)
		})
	}
}

func TestCombineRecencySkippedWithVintageHint(t *testing.T) {
	sig := SignalSet{
		LastShipped: map[string]time.Time{"112301": testNow},
		VintageHint: "2023",
		Now:         testNow,
	}
	_, bd := Combine(0.5, "112301", sig)
	assert.Zero(t, bd.RecencyBonus)
}

func TestCombineVintageFallback(t *testing.T) {
	// No hint: item code vintage 2023 earns 0.002 per year over 2000, capped.
	_, bd := Combine(0.5, "112301", SignalSet{Now: testNow})
	assert.InDelta(t, 0.046, bd.VintageBonus, 1e-9)

	// Cap at 0.05.
	_, bd = Combine(0.5, "114901", SignalSet{Now: testNow})
	assert.InDelta(t, 0.05, bd.VintageBonus, 1e-9)

	// Vintages before the baseline year never go negative.
	_, bd = Combine(0.5, "119901", SignalSet{Now: testNow})
	assert.Zero(t, bd.VintageBonus)
}

func TestCombineVintageHint(t *testing.T) {
	match, bdMatch := Combine(0.5, "112301", SignalSet{VintageHint: "2023", Now: testNow})
	mismatch, bdMiss := Combine(0.5, "112401", SignalSet{VintageHint: "2023", Now: testNow})

	assert.InDelta(t, 0.58, match, 1e-9)
	assert.InDelta(t, 0.08, bdMatch.VintageBonus, 1e-9)
	assert.InDelta(t, 0.32, mismatch, 1e-9)
	assert.InDelta(t, -0.18, bdMiss.VintageBonus, 1e-9)
}

func TestCombineSkipVintage(t *testing.T) {
	// Glass mode: digits in the code are not a year.
	_, bd := Combine(0.5, "0330/07", SignalSet{SkipVintage: true, Now: testNow})
	assert.Zero(t, bd.VintageBonus)
}

func TestCombineClamped(t *testing.T) {
	sig := SignalSet{
		WeakAliasItems:   map[string]bool{"112301": true},
		SelectionBonuses: map[string]float64{"112301": 0.5},
		LastShipped:      map[string]time.Time{"112301": testNow},
		Now:              testNow,
	}
	score, _ := Combine(0.95, "112301", sig)
	assert.Equal(t, 1.0, score)

	score, _ = Combine(0.05, "999999", SignalSet{VintageHint: "2023", Now: testNow})
	assert.GreaterOrEqual(t, score, 0.0)
}

func TestDecodeVintage(t *testing.T) {
	tests := []struct {
		name     string
		itemNo   string
		expected int
	}{
		{
			name:     "two thousands vintage",
			itemNo:   "112301",
			expected: 2023,
		},
		{
			name:     "nineteen hundreds vintage",
			itemNo:   "119801",
			expected: 1998,
		},
		{
			name:     "too short",
			itemNo:   "112",
			expected: 0,
		},
		{
			name:     "non numeric",
			itemNo:   "WIAB01",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeVintage(tt.itemNo))
		})
	}
}

func TestApplyVintageTieBreak(t *testing.T) {
	candidates := []models.ScoredCandidate{
		{ItemNo: "112301", ItemName: "샤또 마고", Score: 0.80},
		{ItemNo: "112401", ItemName: "샤또 마고", Score: 0.78},
		{ItemNo: "993301", ItemName: "샤블리", Score: 0.60},
	}

	ApplyVintageTieBreak(candidates, "")

	// The 2024 bottling takes the top spot via the +0.20 boost.
	assert.Equal(t, "112401", candidates[0].ItemNo)
	assert.InDelta(t, 0.98, candidates[0].Score, 1e-9)
	assert.Equal(t, "112301", candidates[1].ItemNo)
}

func TestApplyVintageTieBreakRespectsHint(t *testing.T) {
	candidates := []models.ScoredCandidate{
		{ItemNo: "112301", ItemName: "샤또 마고", Score: 0.80},
		{ItemNo: "112401", ItemName: "샤또 마고", Score: 0.78},
	}

	ApplyVintageTieBreak(candidates, "2023")

	// An explicit vintage already chose; no boost applied.
	assert.Equal(t, "112301", candidates[0].ItemNo)
	assert.InDelta(t, 0.80, candidates[0].Score, 1e-9)
}

func TestSortCandidates(t *testing.T) {
	candidates := []models.ScoredCandidate{
		{ItemNo: "C", Score: 0.5},
		{ItemNo: "B", Score: 0.9, InHistory: false},
		{ItemNo: "A", Score: 0.9, InHistory: true},
	}
	SortCandidates(candidates)

	assert.Equal(t, "A", candidates[0].ItemNo, "in-history wins the tie")
	assert.Equal(t, "B", candidates[1].ItemNo)
	assert.Equal(t, "C", candidates[2].ItemNo)
}
