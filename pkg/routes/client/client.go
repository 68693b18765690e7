package client

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/clientalias"
	"github.com/Ramsey-B/fern/internal/repositories/shipment"
	"github.com/Ramsey-B/fern/pkg/clients"
	"github.com/Ramsey-B/fern/pkg/models"
)

// Register registers client routes
func Register(g *echo.Group) {
	g.POST("/resolve", Resolve)
	g.GET("/:code/aliases", ListAliases)
	g.POST("/:code/aliases", CreateAlias)
	g.DELETE("/:code/aliases/:alias", DeleteAlias)
	g.GET("/:code/history", History)
}

// ResolveRequest is the request body for client resolution
type ResolveRequest struct {
	Hint         string `json:"hint"`
	ForceResolve bool   `json:"force_resolve"`
}

// Resolve matches a free-text client hint to an account code
func Resolve(c echo.Context) error {
	ctx := c.Request().Context()

	var req ResolveRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Hint == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "hint is required")
	}

	ctx, resolver, err := ectoinject.GetContext[*clients.Resolver](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	return c.JSON(http.StatusOK, resolver.Resolve(ctx, req.Hint, req.ForceResolve))
}

// ListAliases lists the name variants learned for a client
func ListAliases(c echo.Context) error {
	ctx := c.Request().Context()
	code := c.Param("code")

	ctx, repo, err := ectoinject.GetContext[*clientalias.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	rows, err := repo.ListByClient(ctx, code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// CreateAliasRequest is the request body for adding a client name variant
type CreateAliasRequest struct {
	Alias string `json:"alias" validate:"required"`
}

// CreateAlias records a client name variant; re-adding bumps its weight
func CreateAlias(c echo.Context) error {
	ctx := c.Request().Context()
	code := c.Param("code")

	var req CreateAliasRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Alias == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "alias is required")
	}

	ctx, repo, err := ectoinject.GetContext[*clientalias.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.UpsertClientAlias(ctx, models.ClientAlias{ClientCode: code, Alias: req.Alias}); err != nil {
		return err
	}

	if _, resolver, err := ectoinject.GetContext[*clients.Resolver](ctx); err == nil {
		resolver.Invalidate()
	}

	ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
	if logger != nil {
		logger.WithContext(ctx).WithFields(map[string]any{"client_code": code, "alias": req.Alias}).Info("Created client alias")
	}

	return c.NoContent(http.StatusCreated)
}

// DeleteAlias removes a client name variant
func DeleteAlias(c echo.Context) error {
	ctx := c.Request().Context()
	code := c.Param("code")
	alias := c.Param("alias")

	ctx, repo, err := ectoinject.GetContext[*clientalias.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.DeleteClientAlias(ctx, code, alias); err != nil {
		return err
	}

	if _, resolver, err := ectoinject.GetContext[*clients.Resolver](ctx); err == nil {
		resolver.Invalidate()
	}

	return c.NoContent(http.StatusNoContent)
}

// History returns the client's aggregated purchase history
func History(c echo.Context) error {
	ctx := c.Request().Context()
	code := c.Param("code")

	ctx, repo, err := ectoinject.GetContext[*shipment.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	rows, err := repo.ListClientHistory(ctx, code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}
