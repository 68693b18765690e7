package matching

import (
	"strings"

	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// levelWeights are the char/bigram/trigram/word mixing weights, selected by
// tight query length. Short Korean queries carry almost all of their meaning
// at the word level; longer queries get useful signal from n-gram shape.
type levelWeights struct {
	ch, bi, tri, word float64
}

func weightsFor(tightLen int) levelWeights {
	switch {
	case tightLen <= 4:
		return levelWeights{0.05, 0.10, 0.20, 0.65}
	case tightLen <= 8:
		return levelWeights{0.05, 0.15, 0.30, 0.50}
	default:
		return levelWeights{0.05, 0.15, 0.25, 0.55}
	}
}

// MultiLevel scores a query against a candidate name with a four-level n-gram
// ensemble: character, bigram and trigram F1 plus a recall-biased word level,
// mixed with length-adaptive weights. Result is clamped to [0,1]; empty input
// scores 0.
func (s *Scorer) MultiLevel(query, name string) float64 {
	q := normalizers.Tight(query)
	n := normalizers.Tight(name)
	if q == "" || n == "" {
		return 0
	}
	if q == n {
		return 1.0
	}

	w := weightsFor(len([]rune(q)))
	score := w.ch*ngramF1(q, n, 1) +
		w.bi*ngramF1(q, n, 2) +
		w.tri*ngramF1(q, n, 3) +
		w.word*wordScore(query, name)
	return clamp01(score)
}

// ngramF1 is the harmonic mean of n-gram precision and recall, over rune
// n-gram multisets of the tight forms.
func ngramF1(q, n string, size int) float64 {
	qGrams := ngrams(q, size)
	nGrams := ngrams(n, size)
	if len(qGrams) == 0 || len(nGrams) == 0 {
		return 0
	}

	pool := make(map[string]int, len(nGrams))
	for _, g := range nGrams {
		pool[g]++
	}
	common := 0
	for _, g := range qGrams {
		if pool[g] > 0 {
			pool[g]--
			common++
		}
	}
	if common == 0 {
		return 0
	}

	recall := float64(common) / float64(len(qGrams))
	precision := float64(common) / float64(len(nGrams))
	return 2 * recall * precision / (recall + precision)
}

func ngrams(s string, size int) []string {
	runes := []rune(s)
	if len(runes) < size {
		return nil
	}
	out := make([]string, 0, len(runes)-size+1)
	for i := 0; i+size <= len(runes); i++ {
		out = append(out, string(runes[i:i+size]))
	}
	return out
}

// wordScore is recall-biased: it asks how much of the query survives in the
// target, not the reverse, because catalog names carry appellations and
// bottling detail the order line never mentions. Substring hits earn 0.8
// partial credit; near-total recall is stepped up to a confident score.
func wordScore(query, name string) float64 {
	qTokens := normalizers.Tokens(query)
	nTokens := normalizers.Tokens(name)
	if len(qTokens) == 0 || len(nTokens) == 0 {
		return 0
	}

	var credit float64
	for _, qt := range qTokens {
		credit += tokenCredit(qt, nTokens)
	}
	recall := credit / float64(len(qTokens))

	switch {
	case recall >= 0.95:
		return 1.0
	case recall >= 0.85:
		return 0.95
	case recall >= 0.75:
		return 0.85
	case recall >= 0.65:
		return 0.75
	default:
		return recall
	}
}

func tokenCredit(qt string, nTokens []string) float64 {
	partial := 0.0
	for _, nt := range nTokens {
		if qt == nt {
			return 1.0
		}
		if strings.Contains(nt, qt) || strings.Contains(qt, nt) {
			partial = 0.8
		}
	}
	return partial
}
