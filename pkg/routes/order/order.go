package order

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/orders"
)

var validate = validator.New()

// Register registers order resolution routes
func Register(g *echo.Group) {
	g.POST("/resolve", Resolve)
	g.POST("/resolve/glass", ResolveGlass)
}

// ResolveRequest is the request body for order resolution
type ResolveRequest struct {
	Message      string `json:"message"`
	ClientHint   string `json:"client_hint"`
	OrderText    string `json:"order_text"`
	ForceResolve bool   `json:"force_resolve"`
}

func (r ResolveRequest) toModel() models.OrderRequest {
	return models.OrderRequest{
		Message:      r.Message,
		ClientHint:   r.ClientHint,
		OrderText:    r.OrderText,
		ForceResolve: r.ForceResolve,
	}
}

// Resolve runs the wine order pipeline on one message
func Resolve(c echo.Context) error {
	ctx := c.Request().Context()

	var req ResolveRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Message == "" && req.OrderText == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "message or order_text is required")
	}

	ctx, svc, err := ectoinject.GetContext[*orders.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	return c.JSON(http.StatusOK, svc.ResolveOrder(ctx, req.toModel()))
}

// ResolveGlass runs the glassware pipeline on one message
func ResolveGlass(c echo.Context) error {
	ctx := c.Request().Context()

	var req ResolveRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Message == "" && req.OrderText == "" {
		return httperror.NewHTTPError(http.StatusBadRequest, "message or order_text is required")
	}

	ctx, svc, err := ectoinject.GetContext[*orders.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	return c.JSON(http.StatusOK, svc.ResolveGlassOrder(ctx, req.toModel()))
}
