package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseline(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name     string
		query    string
		target   string
		expected float64
	}{
		{
			name:     "exact normalized equality",
			query:    "샤또 마고",
			target:   "샤또마고",
			expected: 1.0,
		},
		{
			name:     "containment",
			query:    "마고",
			target:   "샤또 마고",
			expected: 0.9,
		},
		{
			name:     "reverse containment",
			query:    "샤또 마고 그랑크뤼",
			target:   "샤또마고",
			expected: 0.9,
		},
		{
			name:     "empty query",
			query:    "",
			target:   "샤또 마고",
			expected: 0,
		},
		{
			name:     "empty target",
			query:    "샤또 마고",
			target:   "",
			expected: 0,
		},
		{
			name:     "both empty",
			query:    "",
			target:   "",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, s.Baseline(tt.query, tt.target), 1e-9)
		})
	}
}

func TestBaselineOverlapFallback(t *testing.T) {
	s := NewScorer()

	// 2 of 3 query runes present, short query divides by the floor of 6.
	score := s.Baseline("마고블", "마고샴페인")
	assert.InDelta(t, 2.0/6.0, score, 1e-9)

	// Overlap can never reach the containment tier.
	assert.LessOrEqual(t, s.Baseline("가나다라마바사아", "가나다라마바사자"), 0.89)
}

func TestDice(t *testing.T) {
	s := NewScorer()

	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{
			name:     "identical strings cap at 0.89",
			a:        "리델와인잔",
			b:        "리델와인잔",
			expected: 0.89,
		},
		{
			name:     "disjoint strings",
			a:        "리델",
			b:        "쇼트",
			expected: 0,
		},
		{
			name:     "empty input",
			a:        "",
			b:        "리델",
			expected: 0,
		},
		{
			name:     "single rune equal",
			a:        "잔",
			b:        "잔",
			expected: 0.89,
		},
		{
			name:     "single rune different",
			a:        "잔",
			b:        "병",
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, s.Dice(tt.a, tt.b), 1e-9)
		})
	}

	// "리델와인" vs "리델샴페인": bigrams {리델,델와,와인} vs {리델,델샴,샴페,페인},
	// intersection 1, 2*1/(3+4).
	assert.InDelta(t, 2.0/7.0, s.Dice("리델와인", "리델샴페인"), 1e-9)
}

func TestScorerBounds(t *testing.T) {
	s := NewScorer()
	pairs := [][2]string{
		{"", ""},
		{"a", ""},
		{"", "b"},
		{"샤블리", "메종 로쉬 벨렌, 샤블리 비에유비뉴"},
		{"chateau margaux 2018", "샤또 마고"},
		{"!!!", "???"},
		{"가", "가나다라마바사아자차카타파하"},
	}
	for _, p := range pairs {
		for _, score := range []float64{s.Baseline(p[0], p[1]), s.Dice(p[0], p[1]), s.MultiLevel(p[0], p[1])} {
			assert.GreaterOrEqual(t, score, 0.0, "pair %q", p)
			assert.LessOrEqual(t, score, 1.0, "pair %q", p)
		}
	}
}
