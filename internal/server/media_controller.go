package server

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tk-online/catalog-api/internal/repo/cloudinary"
	"github.com/tk-online/catalog-api/internal/usecase"
)

// MediaController exposes direct media operations to the dashboard: a single
// upload for previews and delete endpoints for asset cleanup. Product
// submits go through the product routes instead.
type MediaController interface {
	Upload(c echo.Context) error
	Delete(c echo.Context) error
	DeleteBatch(c echo.Context) error
}

type mediaController struct {
	media    cloudinary.Client
	uploader usecase.Uploader
}

func NewMediaController(media cloudinary.Client, uploader usecase.Uploader) MediaController {
	return &mediaController{
		media:    media,
		uploader: uploader,
	}
}

func (mc *mediaController) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}

	ctx := c.Request().Context()
	urls, err := mc.uploader.UploadAll(ctx, stagedFiles([]*multipart.FileHeader{fh}))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"url": urls[0]})
}

type deleteMediaRequest struct {
	URL string `json:"url" validate:"required,url"`
}

func (mc *mediaController) Delete(c echo.Context) error {
	var req deleteMediaRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if err := mc.media.Destroy(ctx, req.URL); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "image deleted successfully"})
}

type deleteMediaBatchRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,dive,url"`
}

func (mc *mediaController) DeleteBatch(c echo.Context) error {
	var req deleteMediaBatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if err := mc.media.DestroyAll(ctx, req.URLs); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "images deleted successfully"})
}
