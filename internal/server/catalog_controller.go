package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// ListProducts serves the public grid. Inactive products never leave the
// server; search and category narrowing happen before pagination.
func (h *controller) ListProducts(c echo.Context) error {
	page := pageParam(c)
	search := c.QueryParam("search")
	category := c.QueryParam("category")

	ctx := c.Request().Context()
	result, err := h.products.StorefrontPage(ctx, search, category, page)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *controller) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	product, err := h.products.GetProduct(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *controller) RelatedProducts(c echo.Context) error {
	ctx := c.Request().Context()
	related, err := h.products.RelatedProducts(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"items": related})
}

func pageParam(c echo.Context) int {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
