package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MigrationRepository runs one-off schema work against the store, tracked in
// a migrations collection so restarts don't redo completed work.
type MigrationRepository interface {
	EnsureProductIndexes(ctx context.Context) error
	GetMigrationStatus(ctx context.Context, migrationName string) (*MigrationStatus, error)
	SetMigrationStatus(ctx context.Context, migrationName string, status string) error
}

type migrationRepo struct {
	db *DB
}

type MigrationStatus struct {
	ID          string     `bson:"_id,omitempty" json:"id"`
	Name        string     `bson:"name" json:"name"`
	Status      string     `bson:"status" json:"status"` // "running", "completed", "failed"
	StartedAt   *time.Time `bson:"startedAt" json:"startedAt"`
	CompletedAt *time.Time `bson:"completedAt" json:"completedAt"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}

func NewMigrationRepository(db *DB) MigrationRepository {
	return &migrationRepo{
		db: db,
	}
}

// EnsureProductIndexes creates the indexes the catalog queries lean on:
// category for the related rail and isActive for the storefront filter.
func (r *migrationRepo) EnsureProductIndexes(ctx context.Context) error {
	migrationName := "product_indexes_v1"

	status, err := r.GetMigrationStatus(ctx, migrationName)
	if err == nil && status.Status == "completed" {
		log.Infow(ctx, "migration already completed", "migration", migrationName)
		return nil
	}

	if err := r.SetMigrationStatus(ctx, migrationName, "running"); err != nil {
		return fmt.Errorf("failed to set migration status: %w", err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("idx_category"),
		},
		{
			Keys:    bson.D{{Key: "isActive", Value: 1}},
			Options: options.Index().SetName("idx_is_active"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_created_at"),
		},
	}

	collection := r.db.Database.Collection("products")
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		if setErr := r.SetMigrationStatus(ctx, migrationName, "failed"); setErr != nil {
			log.Errorw(ctx, "failed to set migration failure status", "error", setErr)
		}
		return fmt.Errorf("create product indexes: %w", err)
	}

	if err := r.SetMigrationStatus(ctx, migrationName, "completed"); err != nil {
		log.Errorw(ctx, "failed to set migration completion status", "error", err)
	}

	log.Infow(ctx, "product indexes ensured", "migration", migrationName, "indexes", len(indexes))
	return nil
}

func (r *migrationRepo) GetMigrationStatus(ctx context.Context, migrationName string) (*MigrationStatus, error) {
	collection := r.db.Database.Collection("migrations")

	var status MigrationStatus
	err := collection.FindOne(ctx, bson.M{"name": migrationName}).Decode(&status)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("migration status not found: %s", migrationName)
		}
		return nil, fmt.Errorf("failed to get migration status: %w", err)
	}

	return &status, nil
}

func (r *migrationRepo) SetMigrationStatus(ctx context.Context, migrationName string, status string) error {
	collection := r.db.Database.Collection("migrations")

	now := time.Now()
	set := bson.M{
		"name":      migrationName,
		"status":    status,
		"updatedAt": now,
	}
	if status == "running" {
		set["startedAt"] = now
	} else {
		set["completedAt"] = now
	}

	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"createdAt": now},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := collection.UpdateOne(ctx, bson.M{"name": migrationName}, update, opts); err != nil {
		return fmt.Errorf("failed to set migration status: %w", err)
	}

	return nil
}
