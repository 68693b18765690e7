package itemalias

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/database"
	"github.com/Ramsey-B/stem/pkg/tracing"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/models"
)

// Repository handles item alias persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new item alias repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ListItemAliases returns the full alias table for the snapshot cache
func (r *Repository) ListItemAliases(ctx context.Context) ([]models.ItemAlias, error) {
	ctx, span := tracing.StartSpan(ctx, "itemalias.Repository.ListItemAliases")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("alias", "item_no", "item_name", "client_code", "weight", "created_at", "updated_at")
	sb.From("item_aliases")

	query, args := sb.Build()
	var rows []models.ItemAlias
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list item aliases")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list item aliases")
	}
	return rows, nil
}

// ListByItem returns the aliases learned for one item
func (r *Repository) ListByItem(ctx context.Context, itemNo string) ([]models.ItemAlias, error) {
	ctx, span := tracing.StartSpan(ctx, "itemalias.Repository.ListByItem")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("alias", "item_no", "item_name", "client_code", "weight", "created_at", "updated_at")
	sb.From("item_aliases")
	sb.Where(sb.Equal("item_no", itemNo))
	sb.OrderBy("weight DESC", "alias")

	query, args := sb.Build()
	var rows []models.ItemAlias
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list item aliases by item")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list item aliases")
	}
	return rows, nil
}

// UpsertItemAlias creates an alias or, on re-confirmation of the same pair,
// bumps its weight. Scope never narrows: a global alias stays global even if a
// later confirmation arrives client-scoped.
func (r *Repository) UpsertItemAlias(ctx context.Context, alias models.ItemAlias) error {
	ctx, span := tracing.StartSpan(ctx, "itemalias.Repository.UpsertItemAlias")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":  "UpsertItemAlias",
		"alias":   alias.Alias,
		"item_no": alias.ItemNo,
	})

	now := time.Now().UTC()
	weight := alias.Weight
	if weight < 1 {
		weight = 1
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("item_aliases")
	sb.Cols("alias", "item_no", "item_name", "client_code", "weight", "created_at", "updated_at")
	sb.Values(alias.Alias, alias.ItemNo, alias.ItemName, alias.ClientCode, weight, now, now)

	query, args := sb.Build()
	query += ` ON CONFLICT (alias, item_no) DO UPDATE SET
		weight = item_aliases.weight + 1,
		item_name = EXCLUDED.item_name,
		client_code = CASE WHEN item_aliases.client_code IS NULL THEN NULL ELSE EXCLUDED.client_code END,
		updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to upsert item alias")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert item alias")
	}

	log.Debug("Upserted item alias")
	return nil
}

// DeleteItemAlias removes one alias→item mapping
func (r *Repository) DeleteItemAlias(ctx context.Context, alias, itemNo string) error {
	ctx, span := tracing.StartSpan(ctx, "itemalias.Repository.DeleteItemAlias")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom("item_aliases")
	sb.Where(
		sb.Equal("alias", alias),
		sb.Equal("item_no", itemNo),
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete item alias")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete item alias")
	}
	return nil
}
