package catalogitem

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/stem/pkg/database"
	"github.com/Ramsey-B/stem/pkg/tracing"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/fern/pkg/models"
)

// Repository handles catalog item lookups and the keyword scans behind
// candidate generation
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new catalog item repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Get returns one catalog item by its item number
func (r *Repository) Get(ctx context.Context, itemNo string) (*models.CatalogItem, error) {
	ctx, span := tracing.StartSpan(ctx, "catalogitem.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("item_no", "item_name", "supply_price", "is_glass", "created_at", "updated_at")
	sb.From("catalog_items")
	sb.Where(sb.Equal("item_no", itemNo))

	query, args := sb.Build()
	var items []models.CatalogItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get catalog item")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get catalog item")
	}
	if len(items) == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, "catalog item not found")
	}
	return &items[0], nil
}

// SearchCatalog finds items whose name contains the given tokens. matchAll
// requires every token (AND scan); otherwise any token qualifies (OR scan).
func (r *Repository) SearchCatalog(ctx context.Context, tokens []string, matchAll bool, limit int) ([]models.CatalogItem, error) {
	ctx, span := tracing.StartSpan(ctx, "catalogitem.Repository.SearchCatalog")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":    "SearchCatalog",
		"tokens":    tokens,
		"match_all": matchAll,
	})

	if len(tokens) == 0 {
		return []models.CatalogItem{}, nil
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("item_no", "item_name", "supply_price", "is_glass", "created_at", "updated_at")
	sb.From("catalog_items")

	conds := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		conds = append(conds, sb.Like("lower(item_name)", "%"+strings.ToLower(tok)+"%"))
	}
	if len(conds) == 0 {
		return []models.CatalogItem{}, nil
	}

	if matchAll {
		sb.Where(sb.And(conds...))
	} else {
		sb.Where(sb.Or(conds...))
	}
	sb.OrderBy("item_no")
	sb.Limit(limit)

	query, args := sb.Build()
	var items []models.CatalogItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		log.WithError(err).Error("Failed to search catalog")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to search catalog")
	}

	log.WithFields(map[string]any{"count": len(items)}).Debug("Searched catalog")
	return items, nil
}

// SearchEnglishNames finds items through the English-name side index, joined
// back to the Korean display name
func (r *Repository) SearchEnglishNames(ctx context.Context, term string, limit int) ([]models.EnglishName, error) {
	ctx, span := tracing.StartSpan(ctx, "catalogitem.Repository.SearchEnglishNames")
	defer span.End()

	term = strings.TrimSpace(term)
	if term == "" {
		return []models.EnglishName{}, nil
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("e.item_no", "e.english_name", "c.item_name")
	sb.From("item_english_names e")
	sb.Join("catalog_items c", "c.item_no = e.item_no")
	sb.Where(sb.Like("lower(e.english_name)", "%"+strings.ToLower(term)+"%"))
	sb.OrderBy("e.item_no")
	sb.Limit(limit)

	query, args := sb.Build()
	var rows []models.EnglishName
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to search english names")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to search english names")
	}
	return rows, nil
}

// ListCodedItems returns the glassware catalog, whose item numbers are the
// structured codes the code index is built from
func (r *Repository) ListCodedItems(ctx context.Context) ([]models.CatalogItem, error) {
	ctx, span := tracing.StartSpan(ctx, "catalogitem.Repository.ListCodedItems")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("item_no", "item_name", "supply_price", "is_glass", "created_at", "updated_at")
	sb.From("catalog_items")
	sb.Where(sb.Equal("is_glass", true))

	query, args := sb.Build()
	var items []models.CatalogItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list coded items")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list coded items")
	}
	return items, nil
}

// Upsert creates or refreshes a catalog item. The nightly ETL sync calls this
// for every row in the ERP item master.
func (r *Repository) Upsert(ctx context.Context, item models.CatalogItem) error {
	ctx, span := tracing.StartSpan(ctx, "catalogitem.Repository.Upsert")
	defer span.End()

	now := time.Now().UTC()

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("catalog_items")
	sb.Cols("item_no", "item_name", "supply_price", "is_glass", "created_at", "updated_at")
	sb.Values(item.ItemNo, item.ItemName, item.SupplyPrice, item.IsGlass, now, now)

	query, args := sb.Build()
	query += ` ON CONFLICT (item_no) DO UPDATE SET
		item_name = EXCLUDED.item_name,
		supply_price = EXCLUDED.supply_price,
		is_glass = EXCLUDED.is_glass,
		updated_at = EXCLUDED.updated_at`

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to upsert catalog item")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert catalog item")
	}
	return nil
}

// UpsertEnglishName sets the English-name side index entry for an item
func (r *Repository) UpsertEnglishName(ctx context.Context, itemNo, englishName string) error {
	ctx, span := tracing.StartSpan(ctx, "catalogitem.Repository.UpsertEnglishName")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("item_english_names")
	sb.Cols("item_no", "english_name")
	sb.Values(itemNo, englishName)

	query, args := sb.Build()
	query += ` ON CONFLICT (item_no) DO UPDATE SET english_name = EXCLUDED.english_name`

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to upsert english name")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert english name")
	}
	return nil
}
