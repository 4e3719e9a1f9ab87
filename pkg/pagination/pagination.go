// Package pagination slices ordered collections into fixed-size pages. It is
// shared by the storefront grid and the dashboard table.
package pagination

// TotalPages reports how many pages of size pageSize the collection fills.
// An empty collection has zero pages.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Page returns the pageNumber-th page (1-based) of items. The slice is safe
// when it runs past the end: a short tail page comes back, never an error.
// Callers are expected to clamp pageNumber beforehand, see ClampPage.
func Page[T any](items []T, pageSize, pageNumber int) []T {
	if pageSize <= 0 || pageNumber <= 0 {
		return nil
	}
	start := (pageNumber - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// ClampPage forces page into [1, max(totalPages, 1)]. UI callers disable
// prev/next at the boundaries; API callers go through this instead.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
