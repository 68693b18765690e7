package searchlearning

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

// Repository handles search-learning persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new search learning repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// UpsertSelection records one confirmed query→item pick, bumping the hit
// count for a repeated pair
func (r *Repository) UpsertSelection(ctx context.Context, searchKey, itemNo string) error {
	ctx, span := tracing.StartSpan(ctx, "searchlearning.Repository.UpsertSelection")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":     "UpsertSelection",
		"search_key": searchKey,
		"item_no":    itemNo,
	})

	now := time.Now().UTC()

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("search_learning")
	sb.Cols("search_key", "item_no", "hit_count", "last_used_at")
	sb.Values(searchKey, itemNo, 1, now)

	query, args := sb.Build()
	query += ` ON CONFLICT (search_key, item_no) DO UPDATE SET
		hit_count = search_learning.hit_count + 1,
		last_used_at = EXCLUDED.last_used_at`

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to upsert selection")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert selection")
	}

	log.Debug("Upserted selection")
	return nil
}

// ListByKey returns the accumulated selections for one search key
func (r *Repository) ListByKey(ctx context.Context, searchKey string) ([]models.SearchLearning, error) {
	ctx, span := tracing.StartSpan(ctx, "searchlearning.Repository.ListByKey")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("search_key", "item_no", "hit_count", "last_used_at")
	sb.From("search_learning")
	sb.Where(sb.Equal("search_key", searchKey))
	sb.OrderBy("hit_count DESC")

	query, args := sb.Build()
	var rows []models.SearchLearning
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list selections")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list selections")
	}
	return rows, nil
}
