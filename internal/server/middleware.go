package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tk-online/catalog-api/internal/models"
	"github.com/tk-online/catalog-api/internal/usecase"
)

// errorHandler maps domain errors onto status codes so handlers can return
// usecase errors untouched.
func errorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		he := toHTTPError(err)
		if he.Code >= http.StatusInternalServerError {
			c.Logger().Error(err)
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(he.Code)
			} else {
				err = c.JSON(he.Code, he)
			}
			if err != nil {
				c.Logger().Error(err)
			}
		}
	}
}

func toHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return echo.NewHTTPError(http.StatusBadRequest, ve.Error())
	}

	var ue *models.UploadError
	if errors.As(err, &ue) {
		return echo.NewHTTPError(http.StatusBadGateway, ue.Error())
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrMalformedURL):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	return &echo.HTTPError{
		Code:    http.StatusInternalServerError,
		Message: http.StatusText(http.StatusInternalServerError),
	}
}
