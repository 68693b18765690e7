package matching

import (
	"context"
	"regexp"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/tracing"

	"github.com/Ramsey-B/fern/pkg/aliases"
	"github.com/Ramsey-B/fern/pkg/codes"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// BonusReader supplies search-learning bonuses for a normalized search key.
type BonusReader interface {
	SelectionBonuses(ctx context.Context, searchKey string) (map[string]float64, error)
}

// Service resolves one order line against the catalog: learned-alias bypass,
// structured-code bypass, then fuzzy scoring through the decision policy.
// Stateless per call; every input is a snapshot fetched by the caller.
type Service struct {
	logger  ectologger.Logger
	store   *aliases.Store
	gen     *Generator
	scorer  *Scorer
	bonuses BonusReader
	policy  Policy
	reviewK int
	now     func() time.Time
}

// NewService wires the line resolver.
func NewService(logger ectologger.Logger, store *aliases.Store, gen *Generator, bonuses BonusReader, policy Policy, reviewK int) *Service {
	return &Service{
		logger:  logger,
		store:   store,
		gen:     gen,
		scorer:  NewScorer(),
		bonuses: bonuses,
		policy:  policy,
		reviewK: reviewK,
		now:     time.Now,
	}
}

var barePrefixRe = regexp.MustCompile(`^\d{3,4}$`)

// ResolveLine resolves a single parsed order line. history and codeIdx are
// per-order snapshots built once by the caller.
func (s *Service) ResolveLine(ctx context.Context, line models.OrderLine, clientCode string, history []models.HistoryItem, codeIdx *codes.Index) models.ItemResolution {
	ctx, span := tracing.StartSpan(ctx, "MatchService.ResolveLine")
	defer span.End()
	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"line":        line.Name,
		"client_code": clientCode,
	})

	res := models.ItemResolution{Name: line.Name, Qty: line.Qty}
	if line.Name == "" && line.Code == "" {
		return res
	}

	query := normalizers.ExpandWineTerms(normalizers.ExpandProducers(line.Name))

	cache, err := s.store.Get(ctx)
	if err != nil {
		log.WithError(err).Warn("alias snapshot unavailable, resolving without aliases")
		cache = aliases.BuildCache(nil)
	}

	// Learned-alias bypass: an exact or specific hit outranks everything.
	if m := cache.Lookup(query, clientCode); m != nil && m.HardConfirm() {
		res.Resolved = true
		res.ItemNo = m.ItemNo
		res.ItemName = m.ItemName
		res.Score = 1.0
		res.Method = models.MethodExactAlias
		if m.Class == models.AliasClassContainsSpecific {
			res.Method = models.MethodSpecificAlias
		}
		res.Candidates = []models.ScoredCandidate{{ItemNo: m.ItemNo, ItemName: m.ItemName, Score: 1.0, InHistory: inHistory(history, m.ItemNo)}}
		return res
	}

	// Structured-code bypass.
	if done := s.resolveByCode(line, codeIdx, &res); done {
		return res
	}

	return s.resolveFuzzy(ctx, log, line, query, clientCode, history, cache, res)
}

// resolveByCode handles exact and bare-prefix code matches. Returns true when
// the code path produced a terminal answer (resolved or review payload).
func (s *Service) resolveByCode(line models.OrderLine, codeIdx *codes.Index, res *models.ItemResolution) bool {
	if codeIdx == nil {
		return false
	}

	var entries []codes.Entry
	method := models.MethodExactCode
	switch {
	case line.Code != "":
		entries = codeIdx.Find(line.Code)
	case barePrefixRe.MatchString(line.Name):
		entries = codeIdx.FindByPrefix(line.Name)
		method = models.MethodCodePrefix
	default:
		return false
	}
	if len(entries) == 0 {
		return false
	}

	var inHist []codes.Entry
	for _, e := range entries {
		if e.InHistory {
			inHist = append(inHist, e)
		}
	}

	// One unambiguous match inside the client's own history is as good as a
	// confirmation.
	if len(inHist) == 1 {
		e := inHist[0]
		res.Resolved = true
		res.ItemNo = e.ItemNo
		res.ItemName = e.ItemName
		res.Score = 1.0
		res.Method = method
		res.Candidates = []models.ScoredCandidate{{ItemNo: e.ItemNo, ItemName: e.ItemName, Score: 1.0, InHistory: true}}
		return true
	}

	// A catalog-only match may be a fat-fingered code for an item this client
	// has never ordered: surface it, do not confirm it.
	if len(entries) == 1 {
		e := entries[0]
		res.ItemNo = e.ItemNo
		res.ItemName = e.ItemName
		res.Score = 0.95
		res.Method = method
		res.NotInClientHistory = true
		res.Candidates = []models.ScoredCandidate{{ItemNo: e.ItemNo, ItemName: e.ItemName, Score: 0.95}}
		return true
	}

	for _, e := range entries {
		res.Candidates = append(res.Candidates, models.ScoredCandidate{
			ItemNo:    e.ItemNo,
			ItemName:  e.ItemName,
			Score:     0.95,
			InHistory: e.InHistory,
		})
	}
	res.Method = method
	return true
}

func (s *Service) resolveFuzzy(ctx context.Context, log ectologger.Logger, line models.OrderLine, query, clientCode string, history []models.HistoryItem, cache *aliases.Cache, res models.ItemResolution) models.ItemResolution {
	pool := s.gen.Generate(ctx, query, history)
	if len(pool) == 0 {
		return res
	}

	sig := s.buildSignals(ctx, log, line, query, clientCode, history, cache)

	scored := make([]models.ScoredCandidate, 0, len(pool))
	for _, c := range pool {
		base := s.scorer.MultiLevel(query, c.ItemName)
		// Learned aliases are alternate spellings of the item; the best of
		// name and alias similarity is the base, so a nickname the table
		// knows is not penalized for looking nothing like the catalog name.
		for _, alt := range cache.AliasesFor(c.ItemNo) {
			if altScore := s.scorer.MultiLevel(query, alt); altScore > base {
				base = altScore
			}
		}
		score, breakdown := Combine(base, c.ItemNo, sig)
		scored = append(scored, models.ScoredCandidate{
			ItemNo:    c.ItemNo,
			ItemName:  c.ItemName,
			Score:     score,
			InHistory: c.InHistory,
			Signals:   breakdown,
		})
	}

	SortCandidates(scored)
	ApplyVintageTieBreak(scored, sig.VintageHint)

	hasAliasSupport := len(sig.WeakAliasItems) > 0 || cache.Lookup(query, clientCode) != nil
	decision := Decide(scored, query, hasAliasSupport, sig.VintageHint, s.policy)

	res.Candidates = topK(scored, s.reviewK)
	if decision.Resolved {
		res.Resolved = true
		res.ItemNo = decision.Top.ItemNo
		res.ItemName = decision.Top.ItemName
		res.Score = decision.Top.Score
		res.Method = decision.Method
	}
	return res
}

func (s *Service) buildSignals(ctx context.Context, log ectologger.Logger, line models.OrderLine, query, clientCode string, history []models.HistoryItem, cache *aliases.Cache) SignalSet {
	sig := SignalSet{
		WeakAliasItems: make(map[string]bool),
		LastShipped:    make(map[string]time.Time),
		VintageHint:    line.VintageHint,
		Now:            s.now(),
	}

	for _, m := range cache.WeakHits(query, clientCode) {
		sig.WeakAliasItems[m.ItemNo] = true
	}
	for _, h := range history {
		if h.LastShippedAt != nil {
			sig.LastShipped[h.ItemNo] = *h.LastShippedAt
		}
	}

	if s.bonuses != nil {
		key := normalizers.SearchKey(line.Raw)
		bonuses, err := s.bonuses.SelectionBonuses(ctx, key)
		if err != nil {
			log.WithError(err).Warn("selection bonus fetch failed, continuing without it")
		} else {
			sig.SelectionBonuses = bonuses
		}
	}
	return sig
}

// ResolveGlassLine resolves a glassware line. Codes carry most of the signal
// here; free-text fallback scores with the bigram Dice coefficient and none of
// the vintage machinery, since glass codes encode size, not year.
func (s *Service) ResolveGlassLine(ctx context.Context, line models.OrderLine, clientCode string, history []models.HistoryItem, codeIdx *codes.Index) models.ItemResolution {
	ctx, span := tracing.StartSpan(ctx, "MatchService.ResolveGlassLine")
	defer span.End()
	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"line":        line.Name,
		"client_code": clientCode,
	})

	res := models.ItemResolution{Name: line.Name, Qty: line.Qty}
	if line.Name == "" && line.Code == "" {
		return res
	}

	cache, err := s.store.Get(ctx)
	if err != nil {
		log.WithError(err).Warn("alias snapshot unavailable, resolving without aliases")
		cache = aliases.BuildCache(nil)
	}

	if m := cache.Lookup(line.Name, clientCode); m != nil && m.HardConfirm() {
		res.Resolved = true
		res.ItemNo = m.ItemNo
		res.ItemName = m.ItemName
		res.Score = 1.0
		res.Method = models.MethodExactAlias
		if m.Class == models.AliasClassContainsSpecific {
			res.Method = models.MethodSpecificAlias
		}
		res.Candidates = []models.ScoredCandidate{{ItemNo: m.ItemNo, ItemName: m.ItemName, Score: 1.0, InHistory: inHistory(history, m.ItemNo)}}
		return res
	}

	if done := s.resolveByCode(line, codeIdx, &res); done {
		return res
	}

	pool := s.gen.Generate(ctx, line.Name, history)
	if len(pool) == 0 {
		return res
	}

	sig := s.buildSignals(ctx, log, line, line.Name, clientCode, history, cache)
	sig.SkipVintage = true

	scored := make([]models.ScoredCandidate, 0, len(pool))
	for _, c := range pool {
		base := s.scorer.Dice(line.Name, c.ItemName)
		for _, alt := range cache.AliasesFor(c.ItemNo) {
			if altScore := s.scorer.Dice(line.Name, alt); altScore > base {
				base = altScore
			}
		}
		score, breakdown := Combine(base, c.ItemNo, sig)
		scored = append(scored, models.ScoredCandidate{
			ItemNo:    c.ItemNo,
			ItemName:  c.ItemName,
			Score:     score,
			InHistory: c.InHistory,
			Signals:   breakdown,
		})
	}
	SortCandidates(scored)

	// No vintage-swap exception for glass: two codes sharing a name are
	// different sizes, not different years.
	top := scored[0]
	gap := top.Score
	if len(scored) > 1 {
		gap = top.Score - scored[1].Score
	}
	hasAliasSupport := len(sig.WeakAliasItems) > 0

	res.Candidates = topK(scored, s.reviewK)
	if confirms(top.Score, gap, len(scored), line.Name, hasAliasSupport, s.policy) {
		res.Resolved = true
		res.ItemNo = top.ItemNo
		res.ItemName = top.ItemName
		res.Score = top.Score
		res.Method = models.MethodFuzzy
	}
	return res
}

func inHistory(history []models.HistoryItem, itemNo string) bool {
	for _, h := range history {
		if h.ItemNo == itemNo {
			return true
		}
	}
	return false
}

func topK(candidates []models.ScoredCandidate, k int) []models.ScoredCandidate {
	if k <= 0 || len(candidates) <= k {
		return candidates
	}
	return candidates[:k]
}
