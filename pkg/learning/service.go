// Package learning closes the feedback loop: human confirmations become alias
// rows, candidate picks become search-learning hits, and both feed back into
// future resolutions.
package learning

import (
	"context"
	"math"
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/stem/pkg/tracing"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

// Bonus shape constants. The per-item bonus grows with confirmed picks but is
// hard-capped so learning can nudge, never override, the similarity score.
const (
	minSearchKeyLen = 6
	bonusBase       = 0.02
	bonusLogFactor  = 0.08
	bonusCap        = 0.10
)

// AliasWriter persists alias upserts.
type AliasWriter interface {
	UpsertItemAlias(ctx context.Context, alias models.ItemAlias) error
}

// SelectionStore persists and reads search-learning rows.
type SelectionStore interface {
	UpsertSelection(ctx context.Context, searchKey, itemNo string) error
	ListByKey(ctx context.Context, searchKey string) ([]models.SearchLearning, error)
}

// Invalidator is the alias snapshot cache to poke after a write.
type Invalidator interface {
	Invalidate()
}

// Emitter publishes learning events; nil disables emission.
type Emitter interface {
	AliasLearned(ctx context.Context, alias models.ItemAlias)
	SelectionLearned(ctx context.Context, searchKey, itemNo string)
}

// Service is the learning write path plus the bonus read path.
type Service struct {
	logger     ectologger.Logger
	aliases    AliasWriter
	selections SelectionStore
	cache      Invalidator
	emitter    Emitter
}

// NewService wires the learning service.
func NewService(logger ectologger.Logger, aliases AliasWriter, selections SelectionStore, cache Invalidator, emitter Emitter) *Service {
	return &Service{
		logger:     logger,
		aliases:    aliases,
		selections: selections,
		cache:      cache,
		emitter:    emitter,
	}
}

// ConfirmAlias records a human confirmation as an alias row. Idempotent: the
// repository upsert bumps weight on conflict, so repeated confirmations of the
// same pair only strengthen it.
func (s *Service) ConfirmAlias(ctx context.Context, req models.ConfirmAliasRequest) error {
	ctx, span := tracing.StartSpan(ctx, "Learning.ConfirmAlias")
	defer span.End()
	log := s.logger.WithContext(ctx).WithFields(map[string]any{
		"alias":   req.Alias,
		"item_no": req.ItemNo,
	})

	cleaned := normalizers.Loose(req.Alias)
	if cleaned == "" || req.ItemNo == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "alias and item_no are required")
	}

	alias := models.ItemAlias{
		Alias:    cleaned,
		ItemNo:   req.ItemNo,
		ItemName: req.ItemName,
		Weight:   1,
	}
	if req.ClientCode != "" {
		alias.ClientCode = &req.ClientCode
	}

	if err := s.aliases.UpsertItemAlias(ctx, alias); err != nil {
		log.WithError(err).Error("Failed to upsert item alias")
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate()
	}
	if s.emitter != nil {
		s.emitter.AliasLearned(ctx, alias)
	}
	log.Info("Learned item alias")
	return nil
}

// RecordSelection accumulates one confirmed query→item pick. Keys too short
// to be distinctive are still written; the read path ignores them.
func (s *Service) RecordSelection(ctx context.Context, req models.RecordSelectionRequest) error {
	ctx, span := tracing.StartSpan(ctx, "Learning.RecordSelection")
	defer span.End()

	key := normalizers.SearchKey(req.Query)
	if key == "" || req.ItemNo == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "query and item_no are required")
	}

	if err := s.selections.UpsertSelection(ctx, key, req.ItemNo); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to upsert selection")
		return err
	}
	if s.emitter != nil {
		s.emitter.SelectionLearned(ctx, key, req.ItemNo)
	}
	return nil
}

// SelectionBonuses returns the per-item score bonus for a search key. Short
// keys return nothing: a 2-3 character key matches half the catalog and the
// accumulated hits mean nothing.
func (s *Service) SelectionBonuses(ctx context.Context, searchKey string) (map[string]float64, error) {
	ctx, span := tracing.StartSpan(ctx, "Learning.SelectionBonuses")
	defer span.End()

	if len([]rune(searchKey)) < minSearchKeyLen {
		return nil, nil
	}

	rows, err := s.selections.ListByKey(ctx, searchKey)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.ItemNo] = BonusForHits(row.HitCount)
	}
	return out, nil
}

// BonusForHits maps a hit count to its bounded score bonus.
func BonusForHits(hits int) float64 {
	if hits <= 0 {
		return 0
	}
	return min(bonusCap, bonusBase+math.Log1p(float64(hits))*bonusLogFactor)
}
