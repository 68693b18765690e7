package learning

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/learning"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/normalizers"
)

var validate = validator.New()

// Register registers learning routes
func Register(g *echo.Group) {
	g.POST("/aliases", ConfirmAlias)
	g.POST("/selections", RecordSelection)
	g.GET("/bonuses", Bonuses)
}

// ConfirmAlias records a human-confirmed alias→item mapping
func ConfirmAlias(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.ConfirmAliasRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, svc, err := ectoinject.GetContext[*learning.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := svc.ConfirmAlias(ctx, req); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

// RecordSelection accumulates one confirmed candidate pick
func RecordSelection(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.RecordSelectionRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, svc, err := ectoinject.GetContext[*learning.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := svc.RecordSelection(ctx, req); err != nil {
		return err
	}
	return c.NoContent(http.StatusCreated)
}

// Bonuses returns the per-item bonuses accumulated for a query
func Bonuses(c echo.Context) error {
	ctx := c.Request().Context()

	query := c.QueryParam("query")
	if query == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "query parameter is required")
	}

	ctx, svc, err := ectoinject.GetContext[*learning.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	key := normalizers.SearchKey(query)
	bonuses, err := svc.SelectionBonuses(ctx, key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"search_key": key,
		"bonuses":    bonuses,
	})
}
