package matching

import (
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// Signal weight constants. Policy values, tuned against real order traffic;
// see config for the decision thresholds that sit on top of them.
const (
	weakAliasBonus      = 0.15
	selectionBonusCap   = 0.10
	recencyBonusCap     = 0.05
	recencyDecayPerDay  = 0.0005
	vintageFallbackCap  = 0.05
	vintageFallbackRate = 0.002
	vintageBaseYear     = 2000
	vintageHintBonus    = 0.08
	vintageHintPenalty  = 0.18
	tieBreakBoost       = 0.20
	tieBreakWindow      = 10
)

// SignalSet carries the per-resolution side information the combiner reads.
// Built once per order line from snapshot data; never mutated during scoring.
type SignalSet struct {
	// WeakAliasItems holds item numbers backed by a weak contains alias hit.
	WeakAliasItems map[string]bool
	// SelectionBonuses holds pre-computed search-learning bonuses per item.
	SelectionBonuses map[string]float64
	// LastShipped holds the most recent shipment time per item for the client.
	LastShipped map[string]time.Time
	// VintageHint is the explicit year lifted off the order line, or "".
	VintageHint string
	// SkipVintage disables all vintage terms; glassware codes have no
	// embedded year, their digits are product family and size.
	SkipVintage bool
	Now         time.Time
}

// Combine folds the secondary signals into a base similarity score. Additive
// and order-independent; every term is clamped, the sum is clamped to [0,1].
func Combine(base float64, itemNo string, sig SignalSet) (float64, models.SignalBreakdown) {
	bd := models.SignalBreakdown{Base: clamp01(base)}

	if sig.WeakAliasItems[itemNo] {
		bd.LearnedBonus = weakAliasBonus
	}
	if b, ok := sig.SelectionBonuses[itemNo]; ok {
		bd.SearchBonus = min(b, selectionBonusCap)
	}

	vintage := DecodeVintage(itemNo)
	if sig.SkipVintage {
		vintage = 0
	}
	if sig.VintageHint == "" || sig.SkipVintage {
		if last, ok := sig.LastShipped[itemNo]; ok && !last.IsZero() {
			days := sig.Now.Sub(last).Hours() / 24
			bd.RecencyBonus = max(0, recencyBonusCap-days*recencyDecayPerDay)
		}
		if vintage > 0 {
			bd.VintageBonus = clampBonus(vintageFallbackRate*float64(vintage-vintageBaseYear), vintageFallbackCap)
		}
	} else if vintage > 0 {
		// An explicit year in the order is a high-confidence disambiguator:
		// reward the match, punish the mismatch hard.
		if hintYear(sig.VintageHint) == vintage {
			bd.VintageBonus = vintageHintBonus
		} else {
			bd.VintageBonus = -vintageHintPenalty
		}
	}

	score := bd.Base + bd.LearnedBonus + bd.SearchBonus + bd.RecencyBonus + bd.VintageBonus
	return clamp01(score), bd
}

// DecodeVintage reads the two-digit vintage encoded in item-code characters
// three and four. Returns 0 when the code carries no vintage.
func DecodeVintage(itemNo string) int {
	runes := []rune(itemNo)
	if len(runes) < 4 {
		return 0
	}
	yy, err := strconv.Atoi(string(runes[2:4]))
	if err != nil {
		return 0
	}
	if yy >= 50 {
		return 1900 + yy
	}
	return 2000 + yy
}

// hintYear maps a 4-digit or 2-digit vintage hint to a full year.
func hintYear(hint string) int {
	n, err := strconv.Atoi(hint)
	if err != nil {
		return 0
	}
	if n >= 1900 {
		return n
	}
	if n >= 50 {
		return 1900 + n
	}
	return 2000 + n
}

var yearTokenRe = regexp.MustCompile(`(?:19|20)\d{2}`)

// groupKey is the display name with vintage years stripped, tightened, so two
// bottlings of the same wine land in one tie-break group.
func groupKey(name string) string {
	return normalizers.Tight(yearTokenRe.ReplaceAllString(name, " "))
}

// ApplyVintageTieBreak boosts the latest vintage inside any same-wine group in
// the top window, then re-sorts. Only runs when the order line gave no
// explicit vintage; an explicit hint already picked its year via Combine.
func ApplyVintageTieBreak(candidates []models.ScoredCandidate, vintageHint string) {
	if vintageHint != "" || len(candidates) < 2 {
		return
	}

	window := min(len(candidates), tieBreakWindow)
	groups := make(map[string][]int)
	for i := 0; i < window; i++ {
		key := groupKey(candidates[i].ItemName)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], i)
	}

	for _, idxs := range groups {
		if len(idxs) < 2 {
			continue
		}
		best, bestVintage := -1, 0
		for _, i := range idxs {
			if v := DecodeVintage(candidates[i].ItemNo); v > bestVintage {
				best, bestVintage = i, v
			}
		}
		if best >= 0 {
			candidates[best].Score = clamp01(candidates[best].Score + tieBreakBoost)
			candidates[best].Signals.VintageBonus += tieBreakBoost
		}
	}

	SortCandidates(candidates)
}

// SortCandidates orders by score descending; in-history wins ties, item
// number keeps the order deterministic after that.
func SortCandidates(candidates []models.ScoredCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].InHistory != candidates[j].InHistory {
			return candidates[i].InHistory
		}
		return candidates[i].ItemNo < candidates[j].ItemNo
	})
}

func clampBonus(v, limit float64) float64 {
	if v < 0 {
		return 0
	}
	return min(v, limit)
}
