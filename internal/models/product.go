package models

import (
	"time"

	"github.com/tk-online/catalog-api/pkg/util"
)

// MaxProductImages caps how many images a product may reference, both in the
// staging session and in the persisted document.
const MaxProductImages = 5

// Categories is the single source of truth for the catalog category set.
// Both the request validator and the storefront filters read from it.
var Categories = []string{"Shoes", "Bags", "Accessories"}

func IsValidCategory(c string) bool {
	return util.SliceIncludes(Categories, c)
}

// Product is one document in the "products" collection. The field names keep
// the store's camelCase document shape.
type Product struct {
	ID          ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title" validate:"required"`
	ShortDesc   string    `bson:"shortDesc,omitempty" json:"shortDesc,omitempty"`
	Description string    `bson:"description" json:"description"`
	Category    string    `bson:"category" json:"category" validate:"required,category"`
	Price       float64   `bson:"price" json:"price" validate:"required,gt=0"`
	ImageURLs   []string  `bson:"imageUrls" json:"imageUrls" validate:"required,min=1,max=5,dive,url"`
	IsActive    bool      `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt   time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// ProductUpdate is the explicit partial-update shape for edits. Nil fields are
// left untouched; unknown fields cannot sneak in through a map.
type ProductUpdate struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=1"`
	ShortDesc   *string  `json:"shortDesc,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,category"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	ImageURLs   []string `json:"imageUrls,omitempty" validate:"omitempty,min=1,max=5,dive,url"`
	IsActive    *bool    `json:"isActive,omitempty"`
}
