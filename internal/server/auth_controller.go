package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tk-online/catalog-api/internal/models"
	"github.com/tk-online/catalog-api/internal/server/middleware"
	"github.com/tk-online/catalog-api/internal/usecase"
)

type AuthController interface {
	Login(c echo.Context) error
	Logout(c echo.Context) error
	GetProfile(c echo.Context) error
}

type authController struct {
	authUsecase *usecase.AuthUsecase
}

func NewAuthController(authUsecase *usecase.AuthUsecase) AuthController {
	return &authController{
		authUsecase: authUsecase,
	}
}

func (ac *authController) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	session, err := ac.authUsecase.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, session)
}

// Logout exists for client symmetry: tokens are stateless, so the client
// just drops its copy.
func (ac *authController) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

func (ac *authController) GetProfile(c echo.Context) error {
	user := middleware.GetAuthUser(c)
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return c.JSON(http.StatusOK, user)
}
