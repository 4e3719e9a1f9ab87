package app

import (
	"context"

	"github.com/carousell/ct-go/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/tk-online/catalog-api/internal/config"
	"github.com/tk-online/catalog-api/internal/repo/cloudinary"
	"github.com/tk-online/catalog-api/internal/repo/mongodb"
	"github.com/tk-online/catalog-api/internal/server"
	"github.com/tk-online/catalog-api/internal/usecase"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded", log.Reflect("config", conf))
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newMongoDB,
			newQueryCache,
			newPublisher,

			cloudinary.NewClient,
			mongodb.NewProductRepository,
			mongodb.NewMigrationRepository,

			usecase.NewUploader,
			usecase.NewProductUsecase,
			usecase.NewAuthUsecase,

			server.NewController,
			server.NewDashboardController,
			server.NewMediaController,
			server.NewAuthController,
		),
		fx.Supply(conf),
		fx.Invoke(InitializeIndexes),
		fx.Invoke(funcs...),
	)
}

// InitializeIndexes ensures the product indexes exist before the server
// starts taking traffic.
func InitializeIndexes(lc fx.Lifecycle, migrations mongodb.MigrationRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return migrations.EnsureProductIndexes(ctx)
		},
	})
}
