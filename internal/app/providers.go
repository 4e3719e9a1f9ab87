package app

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/tk-online/catalog-api/internal/cache"
	"github.com/tk-online/catalog-api/internal/config"
	"github.com/tk-online/catalog-api/internal/kafka"
	"github.com/tk-online/catalog-api/internal/repo/mongodb"
)

func newMongoDB(lc fx.Lifecycle, cfg *config.Config) (*mongodb.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := mongodb.NewConnection(ctx, cfg.Database.URI, cfg.Database.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return db.Close(ctx)
		},
	})

	return db, nil
}

func newQueryCache(cfg *config.Config) *cache.QueryCache {
	return cache.NewQueryCache(cfg.Catalog.ListTTL, cfg.Catalog.DetailSeedTTL)
}

func newPublisher(lc fx.Lifecycle, cfg *config.Config) (kafka.Publisher, error) {
	pub, err := kafka.NewPublisher(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return pub.Close()
		},
	})

	return pub, nil
}
