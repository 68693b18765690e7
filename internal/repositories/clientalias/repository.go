package clientalias

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

// Repository handles client alias persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new client alias repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// ListClientAliases returns the full client alias table for the resolver cache
func (r *Repository) ListClientAliases(ctx context.Context) ([]models.ClientAlias, error) {
	ctx, span := tracing.StartSpan(ctx, "clientalias.Repository.ListClientAliases")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("client_code", "alias", "weight", "created_at", "updated_at")
	sb.From("client_aliases")

	query, args := sb.Build()
	var rows []models.ClientAlias
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list client aliases")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list client aliases")
	}
	return rows, nil
}

// ListByClient returns the name variants learned for one client
func (r *Repository) ListByClient(ctx context.Context, clientCode string) ([]models.ClientAlias, error) {
	ctx, span := tracing.StartSpan(ctx, "clientalias.Repository.ListByClient")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("client_code", "alias", "weight", "created_at", "updated_at")
	sb.From("client_aliases")
	sb.Where(sb.Equal("client_code", clientCode))
	sb.OrderBy("weight DESC", "alias")

	query, args := sb.Build()
	var rows []models.ClientAlias
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list client aliases by client")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list client aliases")
	}
	return rows, nil
}

// UpsertClientAlias creates a name variant or bumps its usage weight on
// re-confirmation
func (r *Repository) UpsertClientAlias(ctx context.Context, alias models.ClientAlias) error {
	ctx, span := tracing.StartSpan(ctx, "clientalias.Repository.UpsertClientAlias")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":      "UpsertClientAlias",
		"client_code": alias.ClientCode,
		"alias":       alias.Alias,
	})

	now := time.Now().UTC()
	weight := alias.Weight
	if weight < 1 {
		weight = 1
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("client_aliases")
	sb.Cols("client_code", "alias", "weight", "created_at", "updated_at")
	sb.Values(alias.ClientCode, alias.Alias, weight, now, now)

	query, args := sb.Build()
	query += ` ON CONFLICT (client_code, alias) DO UPDATE SET
		weight = client_aliases.weight + 1,
		updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to upsert client alias")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert client alias")
	}

	log.Debug("Upserted client alias")
	return nil
}

// DeleteClientAlias removes one name variant
func (r *Repository) DeleteClientAlias(ctx context.Context, clientCode, alias string) error {
	ctx, span := tracing.StartSpan(ctx, "clientalias.Repository.DeleteClientAlias")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom("client_aliases")
	sb.Where(
		sb.Equal("client_code", clientCode),
		sb.Equal("alias", alias),
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete client alias")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete client alias")
	}
	return nil
}
