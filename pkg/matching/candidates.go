package matching

import (
	"context"
	"regexp"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/tracing"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// Per-scan row limits. The layered scans get their own budgets so a broad OR
// scan cannot starve the precise AND scan out of the candidate cap.
const (
	andScanLimit     = 30
	halfScanLimit    = 40
	orScanLimit      = 30
	englishScanLimit = 20
)

// CandidateSource is the catalog read surface the generator needs. Failures
// on one source degrade that source to empty; they never abort the pass.
type CandidateSource interface {
	SearchCatalog(ctx context.Context, tokens []string, matchAll bool, limit int) ([]models.CatalogItem, error)
	SearchEnglishNames(ctx context.Context, term string, limit int) ([]models.EnglishName, error)
}

// Candidate is one pooled entity prior to scoring.
type Candidate struct {
	ItemNo    string
	ItemName  string
	InHistory bool
}

// Generator builds a bounded candidate pool for one cleaned query.
type Generator struct {
	source CandidateSource
	logger ectologger.Logger
	cap    int
}

// NewGenerator creates a Generator with the given pool cap.
func NewGenerator(source CandidateSource, logger ectologger.Logger, poolCap int) *Generator {
	return &Generator{source: source, logger: logger, cap: poolCap}
}

var latinRunRe = regexp.MustCompile(`[A-Za-z]{3,}`)

// Generate pools candidates from the client's purchase history, layered
// catalog keyword scans and the English-name side index. History always makes
// the pool in full: it is the strongest prior. Deduplicated by item number,
// first writer keeps its provenance.
func (g *Generator) Generate(ctx context.Context, query string, history []models.HistoryItem) []Candidate {
	ctx, span := tracing.StartSpan(ctx, "Generator.Generate")
	defer span.End()
	log := g.logger.WithContext(ctx).WithFields(map[string]any{"query": query})

	pool := newPool(g.cap)
	for _, h := range history {
		pool.add(h.ItemNo, h.ItemName, true)
	}

	tokens := normalizers.MeaningfulTokens(query)

	// Tail tokens are the most discriminating part of a Korean wine name.
	if tail := lastN(tokens, 2); len(tail) > 0 {
		for _, item := range g.scan(ctx, log, tail, false, orScanLimit) {
			pool.add(item.ItemNo, item.ItemName, false)
		}
	}

	// Layered scans, strongest first: all tokens, half the tokens, any token.
	if len(tokens) >= 2 {
		for _, item := range g.scan(ctx, log, tokens, true, andScanLimit) {
			pool.add(item.ItemNo, item.ItemName, false)
		}
		if half := tokens[:(len(tokens)+1)/2]; len(half) < len(tokens) {
			for _, item := range g.scan(ctx, log, half, true, halfScanLimit) {
				pool.add(item.ItemNo, item.ItemName, false)
			}
		}
		for _, item := range g.scan(ctx, log, tokens, false, orScanLimit) {
			pool.add(item.ItemNo, item.ItemName, false)
		}
	}

	for _, run := range latinRunRe.FindAllString(query, -1) {
		rows, err := g.source.SearchEnglishNames(ctx, run, englishScanLimit)
		if err != nil {
			log.WithError(err).Warn("english name lookup failed, continuing without it")
			continue
		}
		for _, row := range rows {
			if row.ItemName != "" {
				pool.add(row.ItemNo, row.ItemName, false)
			}
		}
	}

	return pool.candidates
}

func (g *Generator) scan(ctx context.Context, log ectologger.Logger, tokens []string, matchAll bool, limit int) []models.CatalogItem {
	items, err := g.source.SearchCatalog(ctx, tokens, matchAll, limit)
	if err != nil {
		log.WithError(err).Warn("catalog scan failed, continuing without it")
		return nil
	}
	return items
}

// pool deduplicates by item number with a hard cap. History entries are added
// first and are never evicted; a duplicate never overwrites provenance.
type pool struct {
	limit      int
	seen       map[string]bool
	candidates []Candidate
}

func newPool(limit int) *pool {
	return &pool{limit: limit, seen: make(map[string]bool)}
}

func (p *pool) add(itemNo, itemName string, inHistory bool) {
	if itemNo == "" || p.seen[itemNo] {
		return
	}
	if !inHistory && len(p.candidates) >= p.limit {
		return
	}
	p.seen[itemNo] = true
	p.candidates = append(p.candidates, Candidate{ItemNo: itemNo, ItemName: itemName, InHistory: inHistory})
}

func lastN(tokens []string, n int) []string {
	if len(tokens) <= n {
		return tokens
	}
	return tokens[len(tokens)-n:]
}
