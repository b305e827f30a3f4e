package services

// Paginate slices an already ordered result, take <= 0 keeps everything after offset.
func Paginate[T any](items []T, take, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return make([]T, 0)
	}
	items = items[offset:]
	if take > 0 && take < len(items) {
		items = items[:take]
	}
	return items
}
