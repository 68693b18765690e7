package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoose(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases and collapses spaces",
			input:    "  Château   Margaux  ",
			expected: "château margaux",
		},
		{
			name:     "punctuation becomes single space",
			input:    "뵈브...암발,브뤼",
			expected: "뵈브 암발 브뤼",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only punctuation",
			input:    "!!??..",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Loose(tt.input))
		})
	}
}

func TestLooseIdempotent(t *testing.T) {
	inputs := []string{
		"샤또 마고 2018",
		"  Veuve   Ambal!! Brut ",
		"까베르네-소비뇽/리저브",
		"",
	}
	for _, in := range inputs {
		once := Loose(in)
		assert.Equal(t, once, Loose(once), "loose must be idempotent for %q", in)
	}
}

func TestTight(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "removes all whitespace",
			input:    "샤또 마고",
			expected: "샤또마고",
		},
		{
			name:     "spacing variants converge",
			input:    "뵈브  암발 브뤼",
			expected: "뵈브암발브뤼",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Tight(tt.input))
		})
	}

	assert.Equal(t, Tight("샤또마고"), Tight("샤또 마고"))
	assert.Equal(t, Tight(Tight("샤또 마고")), Tight("샤또 마고"))
}

func TestClientName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "drops corporate prefix",
			input:    "(주)배산임수",
			expected: "배산임수",
		},
		{
			name:     "drops full corporate marker",
			input:    "주식회사 비노쿠스",
			expected: "비노쿠스",
		},
		{
			name:     "plain name unchanged",
			input:    "와인앤모어 강남점",
			expected: "와인앤모어강남점",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClientName(tt.input))
		})
	}
}

func TestSearchKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips qty unit and spaces",
			input:    "샤또 마고 2병",
			expected: "샤또마고",
		},
		{
			name:     "strips standalone number",
			input:    "모엣샹동 3",
			expected: "모엣샹동",
		},
		{
			name:     "keeps vintage year",
			input:    "샤또 마고 2018 2병",
			expected: "샤또마고2018",
		},
		{
			name:     "quotes removed",
			input:    `"깔베" 보르도`,
			expected: "깔베보르도",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SearchKey(tt.input))
		})
	}

	// Phrasings of the same line collapse onto one key.
	assert.Equal(t, SearchKey("샤또 마고 2병"), SearchKey("샤또마고 x2"))
}

func TestStripQtyUnit(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trailing unit qty",
			input:    "샤블리 2병",
			expected: "샤블리",
		},
		{
			name:     "x-style qty",
			input:    "샤블리 x3",
			expected: "샤블리",
		},
		{
			name:     "bare trailing number",
			input:    "샤블리 5",
			expected: "샤블리",
		},
		{
			name:     "no qty",
			input:    "샤블리",
			expected: "샤블리",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripQtyUnit(tt.input))
		})
	}
}

func TestStripBoilerplate(t *testing.T) {
	got := StripBoilerplate("안녕하세요~ 샤블리 2병 부탁드립니다 감사합니다!")
	assert.NotContains(t, got, "안녕하세요")
	assert.NotContains(t, got, "감사합니다")
	assert.Contains(t, got, "샤블리 2병")
}

func TestStripTailPhrases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "request tail removed",
			input:    "샤블리 2병 요청드립니다",
			expected: "샤블리 2병",
		},
		{
			name:     "juseyo tail removed",
			input:    "모엣샹동 1병 보내주세요",
			expected: "모엣샹동 1병",
		},
		{
			name:     "tail only at end",
			input:    "주세요 와인 2병",
			expected: "주세요 와인 2병",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripTailPhrases(tt.input))
		})
	}
}

func TestNormalizeQuantity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "korean numeral with unit",
			input:    "샤블리 두 병",
			expected: "샤블리 2병",
		},
		{
			name:     "ten",
			input:    "잔 열병",
			expected: "잔 10병",
		},
		{
			name:     "unit spelling folded",
			input:    "샤블리 2보틀",
			expected: "샤블리 2병",
		},
		{
			name:     "digits untouched",
			input:    "샤블리 3병",
			expected: "샤블리 3병",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeQuantity(tt.input))
		})
	}
}

func TestExpandWineTerms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "korean abbreviation",
			input:    "샤도 리저브",
			expected: "샤르도네 리저브",
		},
		{
			name:     "english varietal",
			input:    "kendall chardonnay",
			expected: "kendall 샤르도네",
		},
		{
			name:     "two word varietal",
			input:    "cloudy bay sauvignon blanc",
			expected: "cloudy bay 소비뇽 블랑",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExpandWineTerms(tt.input))
		})
	}
}

func TestExpandProducers(t *testing.T) {
	assert.Equal(t, "샤또 마고", ExpandProducers("ch. 마고"))
	assert.Equal(t, "도멘 르플레브", ExpandProducers("dom 르플레브"))
	// Mid-word "ch" must not expand.
	assert.Equal(t, "munch 마고", ExpandProducers("munch 마고"))
}

func TestMeaningfulTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "drops numbers and short tokens",
			input:    "샤또 마고 2018 a",
			expected: []string{"샤또", "마고"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MeaningfulTokens(tt.input))
		})
	}
}

func TestRegistry(t *testing.T) {
	fn, ok := Get("tight")
	assert.True(t, ok)
	assert.Equal(t, "샤또마고", fn("샤또 마고"))

	assert.Equal(t, "샤또마고", ApplyChain("  샤또 마고!! ", "trim", "tight"))

	_, ok = Get("nonexistent")
	assert.False(t, ok)
	assert.Equal(t, "unchanged", Apply("unchanged", "nonexistent"))
}
