// Package clients resolves the free-text client hint from a chat message to a
// client account code, using the learned client-alias table.
package clients

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/tracing"

	"github.com/Ramsey-B/fern/pkg/matching"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

const weightBonusCap = 0.2
const weightBonusStep = 0.02

// Policy holds the client auto-confirm thresholds.
type Policy struct {
	AutoScore     float64 // 0.93
	AutoGap       float64 // 0.08
	ForceScore    float64 // 0.45, only with force_resolve
	ForceGap      float64 // 0.15
	MaxCandidates int
}

// Lister loads the full client-alias table.
type Lister interface {
	ListClientAliases(ctx context.Context) ([]models.ClientAlias, error)
}

// Resolver matches a client hint against the alias table. The table is small
// and read-heavy, so it is cached whole with a TTL like the item aliases.
type Resolver struct {
	logger ectologger.Logger
	lister Lister
	scorer *matching.Scorer
	policy Policy
	ttl    time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	rows     []models.ClientAlias
	loadedAt time.Time
}

// NewResolver wires a client resolver with the given cache TTL.
func NewResolver(lister Lister, logger ectologger.Logger, policy Policy, ttl time.Duration) *Resolver {
	return &Resolver{
		logger: logger,
		lister: lister,
		scorer: matching.NewScorer(),
		policy: policy,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Resolve matches the hint. Precedence: all-digit hint equal to a client code,
// then tight-normalized name equality, then fuzzy with a usage-weight bonus.
func (r *Resolver) Resolve(ctx context.Context, hint string, force bool) models.ClientResolution {
	ctx, span := tracing.StartSpan(ctx, "ClientResolver.Resolve")
	defer span.End()
	log := r.logger.WithContext(ctx).WithFields(map[string]any{"hint": hint})

	res := models.ClientResolution{Status: models.ClientStatusNeedsReview, HintUsed: hint}
	if hint == "" {
		return res
	}

	rows, err := r.load(ctx)
	if err != nil {
		log.WithError(err).Error("client alias load failed")
		return res
	}

	if digits := normalizers.DigitsOnly(hint); digits == hint && digits != "" {
		for _, row := range rows {
			if row.ClientCode == digits {
				return resolved(row.ClientCode, row.Alias, 1.0, models.ClientMethodExactCode, hint)
			}
		}
	}

	norm := normalizers.ClientName(hint)
	for _, row := range rows {
		if normalizers.ClientName(row.Alias) == norm && norm != "" {
			return resolved(row.ClientCode, row.Alias, 1.0, models.ClientMethodExactNorm, hint)
		}
	}

	candidates := r.rank(hint, rows)
	res.Candidates = candidates
	if len(candidates) > r.policy.MaxCandidates {
		res.Candidates = candidates[:r.policy.MaxCandidates]
	}
	if len(candidates) == 0 {
		return res
	}

	top := candidates[0]
	gap := top.Score
	if len(candidates) > 1 {
		gap = top.Score - candidates[1].Score
	}

	if top.Score >= r.policy.AutoScore && (len(candidates) < 2 || gap >= r.policy.AutoGap) {
		out := resolved(top.ClientCode, top.ClientName, top.Score, models.ClientMethodFuzzyAuto, hint)
		out.Candidates = res.Candidates
		return out
	}
	if force && top.Score >= r.policy.ForceScore && (len(candidates) < 2 || gap >= r.policy.ForceGap) {
		out := resolved(top.ClientCode, top.ClientName, top.Score, models.ClientMethodFuzzyForce, hint)
		out.Candidates = res.Candidates
		return out
	}
	return res
}

// rank scores every client by its best alias. Usage weight adds a bounded
// bonus, but only once the base score shows a real resemblance.
func (r *Resolver) rank(hint string, rows []models.ClientAlias) []models.ClientCandidate {
	type best struct {
		name  string
		score float64
	}
	byClient := make(map[string]best)

	for _, row := range rows {
		base := r.scorer.Baseline(hint, row.Alias)
		score := base
		if base > 0.5 && row.Weight > 1 {
			score = min(1.0, base+min(weightBonusCap, float64(row.Weight-1)*weightBonusStep))
		}
		if score <= 0 {
			continue
		}
		if cur, ok := byClient[row.ClientCode]; !ok || score > cur.score {
			byClient[row.ClientCode] = best{name: row.Alias, score: score}
		}
	}

	out := make([]models.ClientCandidate, 0, len(byClient))
	for code, b := range byClient {
		out = append(out, models.ClientCandidate{ClientCode: code, ClientName: b.name, Score: b.score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ClientCode < out[j].ClientCode
	})
	return out
}

func (r *Resolver) load(ctx context.Context) ([]models.ClientAlias, error) {
	r.mu.RLock()
	rows, fresh := r.rows, r.isFresh()
	r.mu.RUnlock()
	if rows != nil && fresh {
		return rows, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rows != nil && r.isFresh() {
		return r.rows, nil
	}

	loaded, err := r.lister.ListClientAliases(ctx)
	if err != nil {
		if r.rows != nil {
			return r.rows, nil
		}
		return nil, err
	}
	r.rows = loaded
	r.loadedAt = r.now()
	return r.rows, nil
}

// Invalidate forces a reload on the next Resolve.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadedAt = time.Time{}
}

func (r *Resolver) isFresh() bool {
	return !r.loadedAt.IsZero() && r.now().Sub(r.loadedAt) < r.ttl
}

func resolved(code, name string, score float64, method, hint string) models.ClientResolution {
	return models.ClientResolution{
		Status:     models.ClientStatusResolved,
		ClientCode: code,
		ClientName: name,
		Score:      score,
		Method:     method,
		HintUsed:   hint,
	}
}
