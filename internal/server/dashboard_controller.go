package server

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tk-online/catalog-api/internal/models"
	"github.com/tk-online/catalog-api/internal/usecase"
)

// DashboardController carries the authenticated product management routes.
// Create and update take multipart forms so image files ride along with the
// field edits in one submit.
type DashboardController interface {
	ListProducts(c echo.Context) error
	CreateProduct(c echo.Context) error
	UpdateProduct(c echo.Context) error
	DeleteProduct(c echo.Context) error
	ToggleProduct(c echo.Context) error
}

type dashboardController struct {
	products usecase.ProductUsecase
}

func NewDashboardController(products usecase.ProductUsecase) DashboardController {
	return &dashboardController{
		products: products,
	}
}

func (dc *dashboardController) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	result, err := dc.products.DashboardPage(ctx, pageParam(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (dc *dashboardController) CreateProduct(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}

	price, err := priceField(c.FormValue("price"))
	if err != nil {
		return err
	}

	input := usecase.CreateProductInput{
		Title:       c.FormValue("title"),
		ShortDesc:   c.FormValue("shortDesc"),
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
		Price:       price,
		Files:       stagedFiles(form.File["images"]),
	}

	ctx := c.Request().Context()
	product, err := dc.products.CreateProduct(ctx, input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, product)
}

func (dc *dashboardController) UpdateProduct(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}

	input := usecase.UpdateProductInput{
		Title:       formPtr(form, "title"),
		ShortDesc:   formPtr(form, "shortDesc"),
		Description: formPtr(form, "description"),
		Category:    formPtr(form, "category"),
		RemoveURLs:  form.Value["removeUrls"],
		Files:       stagedFiles(form.File["images"]),
	}
	if raw := formPtr(form, "price"); raw != nil {
		price, err := priceField(*raw)
		if err != nil {
			return err
		}
		input.Price = &price
	}

	ctx := c.Request().Context()
	product, err := dc.products.UpdateProduct(ctx, c.Param("id"), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (dc *dashboardController) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	if err := dc.products.DeleteProduct(ctx, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (dc *dashboardController) ToggleProduct(c echo.Context) error {
	ctx := c.Request().Context()
	active, err := dc.products.ToggleActive(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"isActive": active})
}

func stagedFiles(headers []*multipart.FileHeader) []usecase.StagedFile {
	files := make([]usecase.StagedFile, 0, len(headers))
	for _, fh := range headers {
		files = append(files, usecase.StagedFile{
			Name: fh.Filename,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return files
}

func formPtr(form *multipart.Form, field string) *string {
	values, ok := form.Value[field]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func priceField(raw string) (float64, error) {
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &models.ValidationError{Field: "price", Reason: "price must be a number"}
	}
	return price, nil
}
