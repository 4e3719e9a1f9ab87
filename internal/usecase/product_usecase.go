package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"

	"github.com/tk-online/catalog-api/internal/cache"
	"github.com/tk-online/catalog-api/internal/config"
	"github.com/tk-online/catalog-api/internal/kafka"
	"github.com/tk-online/catalog-api/internal/models"
	"github.com/tk-online/catalog-api/internal/repo/cloudinary"
	"github.com/tk-online/catalog-api/internal/repo/mongodb"
	"github.com/tk-online/catalog-api/pkg/pagination"
)

type ProductUsecase interface {
	StorefrontPage(ctx context.Context, search, category string, page int) (*ProductPage, error)
	DashboardPage(ctx context.Context, page int) (*ProductPage, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	RelatedProducts(ctx context.Context, id string) ([]models.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string) (bool, error)
}

type CreateProductInput struct {
	Title       string
	ShortDesc   string
	Description string
	Category    string
	Price       float64
	Files       []StagedFile
}

type UpdateProductInput struct {
	Title       *string
	ShortDesc   *string
	Description *string
	Category    *string
	Price       *float64
	RemoveURLs  []string
	Files       []StagedFile
}

type ProductPage struct {
	Items      []models.Product `json:"items"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
	TotalItems int              `json:"totalItems"`
}

type productUsecase struct {
	repo      mongodb.ProductRepository
	media     cloudinary.Client
	uploader  Uploader
	queries   *cache.QueryCache
	events    kafka.Publisher
	pageSize  int
	related   int
	maxImages int
	mode      DeleteMode
}

func NewProductUsecase(
	conf *config.Config,
	repo mongodb.ProductRepository,
	media cloudinary.Client,
	uploader Uploader,
	queries *cache.QueryCache,
	events kafka.Publisher,
) ProductUsecase {
	return &productUsecase{
		repo:      repo,
		media:     media,
		uploader:  uploader,
		queries:   queries,
		events:    events,
		pageSize:  conf.Catalog.PageSize,
		related:   conf.Catalog.RelatedLimit,
		maxImages: models.MaxProductImages,
		mode:      DeleteMode(conf.Catalog.DeleteMode),
	}
}

// StorefrontPage serves the public grid: active products only, optionally
// narrowed by category and a case-insensitive title search, then paginated.
func (uc *productUsecase) StorefrontPage(ctx context.Context, search, category string, page int) (*ProductPage, error) {
	products, err := uc.queries.List(ctx, uc.repo.List)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(search)
	visible := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		visible = append(visible, p)
	}

	return uc.page(visible, page), nil
}

// DashboardPage lists everything, inactive products included.
func (uc *productUsecase) DashboardPage(ctx context.Context, page int) (*ProductPage, error) {
	products, err := uc.queries.List(ctx, uc.repo.List)
	if err != nil {
		return nil, err
	}
	return uc.page(products, page), nil
}

func (uc *productUsecase) page(items []models.Product, page int) *ProductPage {
	totalPages := pagination.TotalPages(len(items), uc.pageSize)
	page = pagination.ClampPage(page, totalPages)
	return &ProductPage{
		Items:      pagination.Page(items, uc.pageSize, page),
		Page:       page,
		TotalPages: totalPages,
		TotalItems: len(items),
	}
}

func (uc *productUsecase) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return uc.queries.Detail(ctx, id, func(ctx context.Context) (*models.Product, error) {
		return uc.repo.GetByID(ctx, id)
	})
}

// RelatedProducts returns up to relatedLimit products sharing the category,
// the viewed product excluded after the cap is applied.
func (uc *productUsecase) RelatedProducts(ctx context.Context, id string) ([]models.Product, error) {
	product, err := uc.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	return uc.queries.Related(ctx, product.Category, id, func(ctx context.Context) ([]models.Product, error) {
		return uc.repo.FindByCategory(ctx, product.Category, uc.related)
	})
}

// CreateProduct validates, uploads the staged files, then writes the record.
// Validation failures happen before any network call; an upload failure
// aborts the whole submit so a product never references half its images.
func (uc *productUsecase) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	session := NewImageSession(ImageSessionParams{
		Mode:      uc.mode,
		MaxImages: uc.maxImages,
		Media:     uc.media,
		Repo:      uc.repo,
	})
	for _, file := range input.Files {
		if err := session.AddLocal(file); err != nil {
			session.Discard()
			return nil, err
		}
	}

	urls, err := session.Commit(ctx, uc.uploader)
	if err != nil {
		session.Discard()
		return nil, err
	}

	product := &models.Product{
		Title:       input.Title,
		ShortDesc:   input.ShortDesc,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		ImageURLs:   urls,
		IsActive:    true,
	}
	id, err := uc.repo.Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	uc.afterMutation(ctx, models.EventProductCreated, id, nil)
	return product, nil
}

// UpdateProduct runs an edit session over the stored image set: removals
// (per the configured delete mode), uploads, then one record write with the
// reconciled url list.
func (uc *productUsecase) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*models.Product, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	session := NewImageSession(ImageSessionParams{
		Mode:      uc.mode,
		MaxImages: uc.maxImages,
		ProductID: id,
		Persisted: existing.ImageURLs,
		Media:     uc.media,
		Repo:      uc.repo,
	})
	for _, url := range input.RemoveURLs {
		if err := session.RemovePersisted(ctx, url); err != nil {
			session.Discard()
			return nil, err
		}
	}
	for _, file := range input.Files {
		if err := session.AddLocal(file); err != nil {
			session.Discard()
			return nil, err
		}
	}

	urls, err := session.Commit(ctx, uc.uploader)
	if err != nil {
		session.Discard()
		return nil, err
	}

	update := models.ProductUpdate{
		Title:       input.Title,
		ShortDesc:   input.ShortDesc,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		ImageURLs:   urls,
	}
	if err := uc.repo.Update(ctx, id, update); err != nil {
		return nil, err
	}

	uc.afterMutation(ctx, models.EventProductUpdated, id, nil)
	return uc.repo.GetByID(ctx, id)
}

// DeleteProduct removes the record, then destroys its images best-effort:
// an orphaned asset is preferable to a listing pointing at nothing.
func (uc *productUsecase) DeleteProduct(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.repo.Remove(ctx, id); err != nil {
		return err
	}

	if err := uc.media.DestroyAll(ctx, product.ImageURLs); err != nil {
		log.Errorw(ctx, "failed to destroy images of deleted product",
			"product_id", id, "error", err)
	}

	uc.afterMutation(ctx, models.EventProductDeleted, id, nil)
	return nil
}

func (uc *productUsecase) ToggleActive(ctx context.Context, id string) (bool, error) {
	active, err := uc.repo.ToggleActive(ctx, id)
	if err != nil {
		return false, err
	}

	uc.afterMutation(ctx, models.EventProductToggled, id, &active)
	return active, nil
}

func (uc *productUsecase) afterMutation(ctx context.Context, action models.EventAction, id string, active *bool) {
	uc.queries.InvalidateProducts()
	uc.events.Publish(ctx, models.CatalogEvent{
		Action:    action,
		ProductID: id,
		IsActive:  active,
		At:        time.Now(),
	})
}

func validateCreate(input CreateProductInput) error {
	if len(input.Files) == 0 {
		return &models.ValidationError{Field: "imageUrls", Reason: "at least one product image is required"}
	}
	if len(input.Files) > models.MaxProductImages {
		return &models.ValidationError{Field: "imageUrls", Reason: fmt.Sprintf("at most %d images per product", models.MaxProductImages)}
	}
	if strings.TrimSpace(input.Title) == "" {
		return &models.ValidationError{Field: "title", Reason: "product name is required"}
	}
	if input.Category == "" {
		return &models.ValidationError{Field: "category", Reason: "category is required"}
	}
	if !models.IsValidCategory(input.Category) {
		return &models.ValidationError{Field: "category", Reason: "unknown category"}
	}
	if err := validatePrice(input.Price); err != nil {
		return err
	}
	return nil
}

func validateUpdate(input UpdateProductInput) error {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return &models.ValidationError{Field: "title", Reason: "product name is required"}
	}
	if input.Category != nil && !models.IsValidCategory(*input.Category) {
		return &models.ValidationError{Field: "category", Reason: "unknown category"}
	}
	if input.Price != nil {
		if err := validatePrice(*input.Price); err != nil {
			return err
		}
	}
	return nil
}

func validatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return &models.ValidationError{Field: "price", Reason: "price must be a positive number"}
	}
	return nil
}
