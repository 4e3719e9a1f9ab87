package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tk-online/catalog-api/internal/usecase"
)

// Controller carries the public catalog routes plus health.
type Controller interface {
	ListProducts(c echo.Context) error
	GetProduct(c echo.Context) error
	RelatedProducts(c echo.Context) error
	Health(c echo.Context) error
}

type controller struct {
	products usecase.ProductUsecase
}

func NewController(products usecase.ProductUsecase) Controller {
	return &controller{
		products: products,
	}
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "catalog-api",
	})
}
