package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tk-online/catalog-api/internal/models"
)

// ProductRepository is the only way the rest of the service touches the
// "products" collection.
type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (string, error)
	Update(ctx context.Context, id string, update models.ProductUpdate) error
	Remove(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string) (bool, error)
	FindByCategory(ctx context.Context, category string, limit int) ([]models.Product, error)
}

type productRepo struct {
	collection *mongo.Collection
}

func NewProductRepository(db *DB) ProductRepository {
	return &productRepo{
		collection: db.Database.Collection("products"),
	}
}

// List returns every product. Ordering is whatever the store yields; callers
// that need determinism sort on their side.
func (r *productRepo) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}

	var product models.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return &product, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) (string, error) {
	product.ID = ""
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt

	result, err := r.collection.InsertOne(ctx, product)
	if err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("invalid inserted id: %T %+v", result.InsertedID, result.InsertedID)
	}
	product.ID = models.ObjectID(oid.Hex())
	return oid.Hex(), nil
}

// Update applies the given fields after confirming the document still
// exists. Operating on a stale id yields ErrNotFound and writes nothing.
func (r *productRepo) Update(ctx context.Context, id string, update models.ProductUpdate) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}

	err = r.collection.FindOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.ErrNotFound
		}
		return fmt.Errorf("failed to check product %s: %w", id, err)
	}

	set := bson.M{"updatedAt": time.Now()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.ShortDesc != nil {
		set["shortDesc"] = *update.ShortDesc
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.ImageURLs != nil {
		set["imageUrls"] = update.ImageURLs
	}
	if update.IsActive != nil {
		set["isActive"] = *update.IsActive
	}

	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("failed to update product %s: %w", id, err)
	}
	return nil
}

// Remove is idempotent: deleting an id that is already gone is success.
func (r *productRepo) Remove(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}
	return nil
}

// ToggleActive flips isActive and returns the new value. A document missing
// the field counts as inactive, so the first toggle activates it.
func (r *productRepo) ToggleActive(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, models.ErrNotFound
	}

	var doc struct {
		IsActive *bool `bson:"isActive"`
	}
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(bson.M{"isActive": 1})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, models.ErrNotFound
		}
		return false, fmt.Errorf("failed to read product %s: %w", id, err)
	}

	current := doc.IsActive != nil && *doc.IsActive
	next := !current

	update := bson.M{"$set": bson.M{"isActive": next, "updatedAt": time.Now()}}
	if _, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, update); err != nil {
		return false, fmt.Errorf("failed to toggle product %s: %w", id, err)
	}
	return next, nil
}

// FindByCategory backs the related-products query; the limit applies before
// the caller excludes the product being viewed.
func (r *productRepo) FindByCategory(ctx context.Context, category string, limit int) ([]models.Product, error) {
	opts := options.Find().SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"category": category}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find products in category %q: %w", category, err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}
