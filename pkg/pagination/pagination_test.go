package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 3, TotalPages(25, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}

func TestPage(t *testing.T) {
	t.Parallel()

	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, Page([]int{}, 10, 1))
		assert.Equal(t, 0, TotalPages(0, 10))
	})

	t.Run("full middle page", func(t *testing.T) {
		page := Page(items, 10, 2)
		assert.Len(t, page, 10)
		assert.Equal(t, 10, page[0])
		assert.Equal(t, 19, page[9])
	})

	t.Run("short tail page", func(t *testing.T) {
		page := Page(items, 10, 3)
		assert.Len(t, page, 5)
		assert.Equal(t, 20, page[0])
		assert.Equal(t, 24, page[4])
	})

	t.Run("page past the end", func(t *testing.T) {
		assert.Empty(t, Page(items, 10, 4))
	})
}

func TestClampPage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, ClampPage(0, 3))
	assert.Equal(t, 1, ClampPage(-2, 3))
	assert.Equal(t, 2, ClampPage(2, 3))
	assert.Equal(t, 3, ClampPage(9, 3))
	assert.Equal(t, 1, ClampPage(5, 0))
}
