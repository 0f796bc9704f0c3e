package handler

import (
	"net/http"
	"strconv"

	"github.com/Jeho05/gamezone-checkout/internal/checkout"
	"github.com/labstack/echo/v4"
)

// CatalogHandler serves the storefront's read-only catalog lookups through
// the (cached) shop API port.
type CatalogHandler struct {
	catalog checkout.Catalog
}

func NewCatalogHandler(catalog checkout.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/games/:id", h.GetGame)
	e.GET("/api/v1/payment-methods", h.ListPaymentMethods)
}

func (h *CatalogHandler) GetGame(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid game id")
	}

	game, err := h.catalog.GetGame(c.Request().Context(), uint(id))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, game)
}

func (h *CatalogHandler) ListPaymentMethods(c echo.Context) error {
	methods, err := h.catalog.ListPaymentMethods(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, methods)
}
