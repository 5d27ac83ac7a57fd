package utils

// LimitPageSlice returns the 1-based page of s holding at most limit items,
// and len(s). Pages past the end are empty.
func LimitPageSlice[T any](s []T, page, limit int) ([]T, int) {
	page = max(page, 1)
	limit = max(limit, 1)

	start := (page - 1) * limit
	if start >= len(s) {
		return []T{}, len(s)
	}
	end := min(start+limit, len(s))
	return append(make([]T, 0, end-start), s[start:end]...), len(s)
}
