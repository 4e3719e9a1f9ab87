package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tk-online/catalog-api/internal/models"
	"github.com/tk-online/catalog-api/internal/repo/cloudinary"
	"github.com/tk-online/catalog-api/internal/repo/mongodb"
)

// DeleteMode picks when persisted-image removals hit the media service.
type DeleteMode string

const (
	// DeleteDeferred queues removals locally and issues one batch destroy at
	// submit time, before uploads and before the record write.
	DeleteDeferred DeleteMode = "deferred"
	// DeleteImmediate destroys the asset at removal time and, on success,
	// also writes the shrunken imageUrls list to the store.
	DeleteImmediate DeleteMode = "immediate"
)

// Preview is the transient handle backing a staged file's thumbnail. It must
// be released when the staged file is superseded or the session ends.
type Preview struct {
	url      string
	released bool
}

func newPreview(name string) *Preview {
	return &Preview{url: "preview://" + uuid.NewString() + "/" + name}
}

func (p *Preview) URL() string    { return p.url }
func (p *Preview) Released() bool { return p.released }
func (p *Preview) Release()      { p.released = true }

type stagedLocal struct {
	file    StagedFile
	preview *Preview
}

// ImageSession reconciles a product's image set across one create or edit
// form session. Three disjoint groups: urls already on the product, local
// files waiting for upload, and urls queued for destruction.
//
// Sessions are driven from a single request handler; they are not safe for
// concurrent use.
type ImageSession struct {
	mode      DeleteMode
	max       int
	productID string

	persisted []string
	pending   []stagedLocal
	deletions []string

	media cloudinary.Client
	repo  mongodb.ProductRepository
}

type ImageSessionParams struct {
	Mode      DeleteMode
	MaxImages int
	ProductID string   // empty for the create flow
	Persisted []string // imageUrls already on the product
	Media     cloudinary.Client
	Repo      mongodb.ProductRepository
}

func NewImageSession(params ImageSessionParams) *ImageSession {
	max := params.MaxImages
	if max <= 0 {
		max = models.MaxProductImages
	}
	persisted := make([]string, len(params.Persisted))
	copy(persisted, params.Persisted)

	return &ImageSession{
		mode:      params.Mode,
		max:       max,
		productID: params.ProductID,
		persisted: persisted,
		media:     params.Media,
		repo:      params.Repo,
	}
}

// Count is how many images the product would end up with as staged now.
func (s *ImageSession) Count() int {
	return len(s.persisted) + len(s.pending)
}

func (s *ImageSession) Persisted() []string        { return s.persisted }
func (s *ImageSession) PendingDeletions() []string { return s.deletions }

// Previews exposes the live preview handles, persisted urls first, matching
// the order the form renders them in.
func (s *ImageSession) Previews() []string {
	out := make([]string, 0, s.Count())
	out = append(out, s.persisted...)
	for _, p := range s.pending {
		out = append(out, p.preview.URL())
	}
	return out
}

// AddLocal stages a freshly selected file. Capacity counts persisted and
// pending together; removals free capacity right away.
func (s *ImageSession) AddLocal(file StagedFile) error {
	if s.Count() >= s.max {
		return &models.ValidationError{
			Field:  "imageUrls",
			Reason: fmt.Sprintf("at most %d images per product", s.max),
		}
	}
	s.pending = append(s.pending, stagedLocal{file: file, preview: newPreview(file.Name)})
	return nil
}

// RemoveLocal drops the staged file behind the given preview handle and
// releases it. Handles are unique, so exactly one file goes even when several
// share a filename. Purely local: no network call ever happens for an image
// that was never uploaded.
func (s *ImageSession) RemoveLocal(previewURL string) {
	for i, p := range s.pending {
		if p.preview.URL() == previewURL {
			p.preview.Release()
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// RemovePersisted takes an already-stored url out of the product. Deferred
// mode only moves it to the deletion queue; immediate mode destroys the
// asset and shrinks the stored record before touching local state.
func (s *ImageSession) RemovePersisted(ctx context.Context, url string) error {
	found := false
	for _, u := range s.persisted {
		if u == url {
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	if s.mode == DeleteImmediate {
		if err := s.media.Destroy(ctx, url); err != nil {
			return err
		}
		if s.productID != "" {
			update := models.ProductUpdate{ImageURLs: without(s.persisted, url)}
			if err := s.repo.Update(ctx, s.productID, update); err != nil {
				return err
			}
		}
	} else {
		s.deletions = append(s.deletions, url)
	}

	s.persisted = without(s.persisted, url)
	return nil
}

// Commit finalizes the session: queued destroys first, then the uploads,
// then the final url list is handed back for the record write. Previews are
// released on success. Returns in append order, duplicates collapsed.
func (s *ImageSession) Commit(ctx context.Context, up Uploader) ([]string, error) {
	if s.Count() == 0 {
		return nil, &models.ValidationError{Field: "imageUrls", Reason: "at least one product image is required"}
	}

	if len(s.deletions) > 0 {
		if err := s.media.DestroyAll(ctx, s.deletions); err != nil {
			return nil, err
		}
		s.deletions = nil
	}

	files := make([]StagedFile, len(s.pending))
	for i, p := range s.pending {
		files[i] = p.file
	}
	uploaded, err := up.UploadAll(ctx, files)
	if err != nil {
		return nil, err
	}

	final := make([]string, 0, len(s.persisted)+len(uploaded))
	seen := make(map[string]bool, cap(final))
	for _, url := range append(append([]string{}, s.persisted...), uploaded...) {
		if seen[url] {
			continue
		}
		seen[url] = true
		final = append(final, url)
	}

	s.releasePreviews()
	return final, nil
}

// Discard abandons the session: previews are released and queued deletions
// are dropped without ever reaching the media service.
func (s *ImageSession) Discard() {
	s.deletions = nil
	s.releasePreviews()
}

func (s *ImageSession) releasePreviews() {
	for _, p := range s.pending {
		p.preview.Release()
	}
	s.pending = nil
}

func without(urls []string, url string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != url {
			out = append(out, u)
		}
	}
	return out
}
