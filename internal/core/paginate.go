package core

// Paginate returns the 1-based pageNumber window of items. Out-of-range page
// numbers are clamped to [1, TotalPages], so page 0 yields the first page and
// an overshoot yields the last. A pageSize <= 0 is invalid input.
func Paginate[T any](items []T, pageSize, pageNumber int) ([]T, error) {
	if pageSize <= 0 {
		return nil, &ValidationError{Field: "page_size", Message: "must be a positive number"}
	}

	total := TotalPages(len(items), pageSize)
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageNumber > total {
		pageNumber = total
	}

	start := (pageNumber - 1) * pageSize
	if start >= len(items) {
		return items[:0], nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], nil
}

// TotalPages returns the number of pages needed for count items, never
// less than 1 so an empty collection still has a first page.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 || count <= 0 {
		return 1
	}
	pages := (count + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}
