package usecase

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/tk-online/catalog-api/internal/models"
	"github.com/tk-online/catalog-api/internal/repo/cloudinary"
)

// StagedFile is a locally-selected image that has not reached the media
// service yet. Open hands back a fresh reader so a retry of the whole submit
// re-reads from the start.
type StagedFile struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// Uploader pushes staged files to the media service.
type Uploader interface {
	// UploadAll uploads every file concurrently and returns the canonical
	// URLs in input order. All-or-nothing: one failed upload fails the whole
	// batch and no URL is surfaced to the caller.
	UploadAll(ctx context.Context, files []StagedFile) ([]string, error)
}

type uploader struct {
	media cloudinary.Client
}

func NewUploader(media cloudinary.Client) Uploader {
	return &uploader{media: media}
}

func (u *uploader) UploadAll(ctx context.Context, files []StagedFile) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			content, err := file.Open()
			if err != nil {
				return &models.UploadError{File: file.Name, Err: err}
			}
			defer content.Close()

			url, err := u.media.Upload(gctx, file.Name, content)
			if err != nil {
				return &models.UploadError{File: file.Name, Err: err}
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return urls, nil
}
