package shipment

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/database"
	"github.com/Ramsey-B/stem/pkg/tracing"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/models"
)

// Repository handles shipment persistence and the client history aggregation
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new shipment repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ListClientHistory aggregates shipments into the client's distinct-item
// purchase history, newest first. The resolver fetches this once per order.
func (r *Repository) ListClientHistory(ctx context.Context, clientCode string) ([]models.HistoryItem, error) {
	ctx, span := tracing.StartSpan(ctx, "shipment.Repository.ListClientHistory")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":      "ListClientHistory",
		"client_code": clientCode,
	})

	query := `
		SELECT
			item_no,
			max(item_name) AS item_name,
			max(shipped_at) AS last_shipped_at,
			count(*) AS ship_count
		FROM shipments
		WHERE client_code = $1
		GROUP BY item_no
		ORDER BY max(shipped_at) DESC`

	var rows []models.HistoryItem
	if err := r.db.SelectContext(ctx, &rows, query, clientCode); err != nil {
		log.WithError(err).Error("Failed to list client history")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list client history")
	}

	log.WithFields(map[string]any{"count": len(rows)}).Debug("Listed client history")
	return rows, nil
}

// Insert records one delivery line. The ERP sync writes these after each
// dispatch run.
func (r *Repository) Insert(ctx context.Context, s models.Shipment) error {
	ctx, span := tracing.StartSpan(ctx, "shipment.Repository.Insert")
	defer span.End()

	if s.ID == "" {
		s.ID = uuid.New().String()
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("shipments")
	sb.Cols("id", "client_code", "item_no", "item_name", "qty", "shipped_at")
	sb.Values(s.ID, s.ClientCode, s.ItemNo, s.ItemName, s.Qty, s.ShippedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to insert shipment")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to insert shipment")
	}
	return nil
}

// ListRecent returns a client's latest shipment lines, for the review UI
func (r *Repository) ListRecent(ctx context.Context, clientCode string, limit int) ([]models.Shipment, error) {
	ctx, span := tracing.StartSpan(ctx, "shipment.Repository.ListRecent")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "client_code", "item_no", "item_name", "qty", "shipped_at")
	sb.From("shipments")
	sb.Where(sb.Equal("client_code", clientCode))
	sb.OrderBy("shipped_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	var rows []models.Shipment
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list recent shipments")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list recent shipments")
	}
	return rows, nil
}
