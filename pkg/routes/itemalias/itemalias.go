package itemalias

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/itemalias"
	"github.com/Ramsey-B/fern/pkg/aliases"
)

// Register registers item alias routes
func Register(g *echo.Group) {
	g.GET("", List)
	g.DELETE("/:alias/:item_no", Delete)
}

// List lists the aliases learned for an item
func List(c echo.Context) error {
	ctx := c.Request().Context()

	itemNo := c.QueryParam("item_no")
	if itemNo == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "item_no query parameter is required")
	}

	ctx, repo, err := ectoinject.GetContext[*itemalias.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	rows, err := repo.ListByItem(ctx, itemNo)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// Delete removes one alias→item mapping and drops the snapshot so the next
// resolve reloads
func Delete(c echo.Context) error {
	ctx := c.Request().Context()
	alias := c.Param("alias")
	itemNo := c.Param("item_no")

	ctx, repo, err := ectoinject.GetContext[*itemalias.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.DeleteItemAlias(ctx, alias, itemNo); err != nil {
		return err
	}

	if _, store, err := ectoinject.GetContext[*aliases.Store](ctx); err == nil {
		store.Invalidate()
	}

	return c.NoContent(http.StatusNoContent)
}
