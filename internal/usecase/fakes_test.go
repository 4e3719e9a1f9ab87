package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/tk-online/catalog-api/internal/kafka"
	"github.com/tk-online/catalog-api/internal/models"
)

type fakeMedia struct {
	mu sync.Mutex

	uploads     []string
	destroys    []string
	batches     [][]string
	uploadErrOn string
	destroyErr  error
}

func (f *fakeMedia) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErrOn != "" && filename == f.uploadErrOn {
		return "", fmt.Errorf("upstream rejected %s", filename)
	}
	f.uploads = append(f.uploads, filename)
	return "https://res.cloudinary.com/demo/image/upload/v1/shop/" + filename, nil
}

func (f *fakeMedia) Destroy(ctx context.Context, assetURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.destroyErr != nil {
		return f.destroyErr
	}
	f.destroys = append(f.destroys, assetURL)
	return nil
}

func (f *fakeMedia) DestroyAll(ctx context.Context, assetURLs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.destroyErr != nil {
		return f.destroyErr
	}
	f.batches = append(f.batches, assetURLs)
	return nil
}

func (f *fakeMedia) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads) + len(f.destroys) + len(f.batches)
}

type fakeRepo struct {
	mu       sync.Mutex
	seq      int
	products map[string]models.Product
	updates  int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{products: make(map[string]models.Product)}
}

func (r *fakeRepo) seed(p models.Product) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := fmt.Sprintf("65a%021d", r.seq)
	p.ID = models.ObjectID(id)
	r.products[id] = p
	return id
}

func (r *fakeRepo) List(ctx context.Context) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Product, 0, len(r.products))
	for i := 1; i <= r.seq; i++ {
		id := fmt.Sprintf("65a%021d", i)
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (r *fakeRepo) Create(ctx context.Context, product *models.Product) (string, error) {
	return r.seed(*product), nil
}

func (r *fakeRepo) Update(ctx context.Context, id string, update models.ProductUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return models.ErrNotFound
	}
	if update.Title != nil {
		p.Title = *update.Title
	}
	if update.ShortDesc != nil {
		p.ShortDesc = *update.ShortDesc
	}
	if update.Description != nil {
		p.Description = *update.Description
	}
	if update.Category != nil {
		p.Category = *update.Category
	}
	if update.Price != nil {
		p.Price = *update.Price
	}
	if update.ImageURLs != nil {
		p.ImageURLs = update.ImageURLs
	}
	if update.IsActive != nil {
		p.IsActive = *update.IsActive
	}
	r.products[id] = p
	r.updates++
	return nil
}

func (r *fakeRepo) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeRepo) ToggleActive(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return false, models.ErrNotFound
	}
	p.IsActive = !p.IsActive
	r.products[id] = p
	return p.IsActive, nil
}

func (r *fakeRepo) FindByCategory(ctx context.Context, category string, limit int) ([]models.Product, error) {
	all, _ := r.List(ctx)
	out := make([]models.Product, 0, limit)
	for _, p := range all {
		if p.Category == category && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []models.CatalogEvent
}

var _ kafka.Publisher = (*fakePublisher)(nil)

func (f *fakePublisher) Publish(ctx context.Context, event models.CatalogEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakePublisher) Close() error { return nil }

func stagedFile(name, content string) StagedFile {
	return StagedFile{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(content)), nil
		},
	}
}
