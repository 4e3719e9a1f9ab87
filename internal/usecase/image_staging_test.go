package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tk-online/catalog-api/internal/models"
)

func newSession(mode DeleteMode, media *fakeMedia, persisted ...string) *ImageSession {
	repo := newFakeRepo()
	id := repo.seed(models.Product{Title: "Runner", Category: "Shoes", ImageURLs: persisted})
	return NewImageSession(ImageSessionParams{
		Mode:      mode,
		MaxImages: models.MaxProductImages,
		ProductID: id,
		Persisted: persisted,
		Media:     media,
		Repo:      repo,
	})
}

func TestAddLocalCapacity(t *testing.T) {
	t.Parallel()
	s := newSession(DeleteDeferred, &fakeMedia{})

	for i := 0; i < models.MaxProductImages; i++ {
		require.NoError(t, s.AddLocal(stagedFile(fmt.Sprintf("img-%d.jpg", i), "x")))
	}
	assert.Equal(t, models.MaxProductImages, s.Count())

	err := s.AddLocal(stagedFile("overflow.jpg", "x"))
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "imageUrls", ve.Field)
}

func TestCapacityCountsPersistedImages(t *testing.T) {
	t.Parallel()
	s := newSession(DeleteDeferred, &fakeMedia{},
		"https://res.cloudinary.com/demo/image/upload/a.jpg",
		"https://res.cloudinary.com/demo/image/upload/b.jpg",
		"https://res.cloudinary.com/demo/image/upload/c.jpg",
	)

	require.NoError(t, s.AddLocal(stagedFile("d.jpg", "x")))
	require.NoError(t, s.AddLocal(stagedFile("e.jpg", "x")))
	assert.Error(t, s.AddLocal(stagedFile("f.jpg", "x")))

	// removal frees capacity right away
	require.NoError(t, s.RemovePersisted(context.Background(), "https://res.cloudinary.com/demo/image/upload/a.jpg"))
	assert.NoError(t, s.AddLocal(stagedFile("f.jpg", "x")))
}

func TestRemoveLocalNeverTouchesNetwork(t *testing.T) {
	t.Parallel()
	media := &fakeMedia{}
	s := newSession(DeleteDeferred, media)

	require.NoError(t, s.AddLocal(stagedFile("a.jpg", "x")))
	previews := s.Previews()
	require.Len(t, previews, 1)

	s.RemoveLocal(previews[0])

	assert.Equal(t, 0, s.Count())
	assert.Equal(t, 0, media.calls())
	assert.Empty(t, s.PendingDeletions())
}

func TestRemoveLocalDuplicateNamesRemovesOne(t *testing.T) {
	t.Parallel()
	s := newSession(DeleteDeferred, &fakeMedia{})

	require.NoError(t, s.AddLocal(stagedFile("photo.jpg", "x")))
	require.NoError(t, s.AddLocal(stagedFile("photo.jpg", "y")))
	previews := s.Previews()
	require.Len(t, previews, 2)

	s.RemoveLocal(previews[0])

	assert.Equal(t, 1, s.Count())
	assert.Equal(t, []string{previews[1]}, s.Previews())
}

func TestDeferredRemovalQueuesDeletion(t *testing.T) {
	t.Parallel()
	media := &fakeMedia{}
	url := "https://res.cloudinary.com/demo/image/upload/a.jpg"
	s := newSession(DeleteDeferred, media, url)

	require.NoError(t, s.RemovePersisted(context.Background(), url))

	assert.Equal(t, 0, media.calls())
	assert.Equal(t, []string{url}, s.PendingDeletions())
	assert.Empty(t, s.Persisted())
}

func TestImmediateRemovalDestroysNow(t *testing.T) {
	t.Parallel()
	media := &fakeMedia{}
	url := "https://res.cloudinary.com/demo/image/upload/a.jpg"
	s := newSession(DeleteImmediate, media, url)

	require.NoError(t, s.RemovePersisted(context.Background(), url))

	assert.Equal(t, []string{url}, media.destroys)
	assert.Empty(t, s.PendingDeletions())
	assert.Empty(t, s.Persisted())
}

func TestRemovePersistedUnknownURLIsNoop(t *testing.T) {
	t.Parallel()
	media := &fakeMedia{}
	s := newSession(DeleteImmediate, media, "https://res.cloudinary.com/demo/image/upload/a.jpg")

	require.NoError(t, s.RemovePersisted(context.Background(), "https://res.cloudinary.com/demo/image/upload/other.jpg"))
	assert.Equal(t, 0, media.calls())
	assert.Len(t, s.Persisted(), 1)
}

func TestCommitRunsDeletionsBeforeUploads(t *testing.T) {
	t.Parallel()
	media := &fakeMedia{}
	kept := "https://res.cloudinary.com/demo/image/upload/keep.jpg"
	gone := "https://res.cloudinary.com/demo/image/upload/gone.jpg"
	s := newSession(DeleteDeferred, media, kept, gone)

	require.NoError(t, s.RemovePersisted(context.Background(), gone))
	require.NoError(t, s.AddLocal(stagedFile("new.jpg", "x")))

	urls, err := s.Commit(context.Background(), NewUploader(media))
	require.NoError(t, err)

	require.Len(t, media.batches, 1)
	assert.Equal(t, []string{gone}, media.batches[0])

	require.Len(t, urls, 2)
	assert.Equal(t, kept, urls[0])
	assert.Contains(t, urls[1], "new.jpg")
}

func TestCommitRequiresAtLeastOneImage(t *testing.T) {
	t.Parallel()
	media := &fakeMedia{}
	s := newSession(DeleteDeferred, media)

	_, err := s.Commit(context.Background(), NewUploader(media))
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 0, media.calls())
}

func TestCommitReleasesPreviews(t *testing.T) {
	t.Parallel()
	media := &fakeMedia{}
	s := newSession(DeleteDeferred, media)

	require.NoError(t, s.AddLocal(stagedFile("a.jpg", "x")))
	handle := s.pending[0].preview

	_, err := s.Commit(context.Background(), NewUploader(media))
	require.NoError(t, err)
	assert.True(t, handle.Released())
}

func TestDiscardDropsDeletionsAndReleasesPreviews(t *testing.T) {
	t.Parallel()
	media := &fakeMedia{}
	url := "https://res.cloudinary.com/demo/image/upload/a.jpg"
	s := newSession(DeleteDeferred, media, url)

	require.NoError(t, s.RemovePersisted(context.Background(), url))
	require.NoError(t, s.AddLocal(stagedFile("b.jpg", "x")))
	handle := s.pending[0].preview

	s.Discard()

	assert.Equal(t, 0, media.calls())
	assert.Empty(t, s.PendingDeletions())
	assert.True(t, handle.Released())
}
