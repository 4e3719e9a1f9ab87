package server

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/carousell/ct-go/pkg/logger"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"github.com/tk-online/catalog-api/internal/config"
	pkgmdw "github.com/tk-online/catalog-api/internal/server/middleware"
	"github.com/tk-online/catalog-api/internal/usecase"
)

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	handler Controller,
	dashboard DashboardController,
	media MediaController,
	auth AuthController,
	authUsecase *usecase.AuthUsecase,
) {
	e := echo.New()
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = errorHandler()

	logConfig := pkgmdw.LogRequestConfig{
		Logger: logger.MustNamed("http"),
		Enabled: func(c echo.Context) bool {
			uri := c.Request().RequestURI
			return uri != "/health" && uri != "/metrics"
		},
		RequestBody: func(c echo.Context) bool {
			// login bodies carry credentials
			return c.Path() != "/api/v1/auth/login"
		},
	}

	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.CORS(regexp.MustCompile(conf.Server.AllowedOrigins)))
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return nil
		},
	}))

	e.GET("/health", handler.Health)

	api := e.Group("/api/v1")

	api.GET("/products", handler.ListProducts)
	api.GET("/products/:id", handler.GetProduct)
	api.GET("/products/:id/related", handler.RelatedProducts)

	api.POST("/auth/login", auth.Login)
	api.POST("/auth/logout", auth.Logout)

	authed := pkgmdw.JWTAuth(authUsecase)
	api.GET("/auth/me", auth.GetProfile, authed)

	dash := api.Group("/dashboard", authed)
	dash.GET("/products", dashboard.ListProducts)
	dash.POST("/products", dashboard.CreateProduct)
	dash.PUT("/products/:id", dashboard.UpdateProduct)
	dash.DELETE("/products/:id", dashboard.DeleteProduct)
	dash.PATCH("/products/:id/toggle", dashboard.ToggleProduct)

	mediaGroup := api.Group("/media", authed)
	mediaGroup.POST("/upload", media.Upload)
	mediaGroup.POST("/delete", media.Delete)
	mediaGroup.POST("/delete-batch", media.DeleteBatch)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(ctx, "starting HTTP server", "addr", conf.Server.Addr)
				if err := e.Start(conf.Server.Addr); !errors.Is(err, http.ErrServerClosed) {
					sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}
