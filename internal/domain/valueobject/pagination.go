package valueobject

import "math"

// NormalizePage приводит номер страницы к допустимому значению (страницы с 1).
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// TotalPages возвращает ceil(total / size).
func TotalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// PageOffset возвращает количество пропускаемых записей для страницы.
// Для страниц, смещение которых не помещается в int, возвращается math.MaxInt.
func PageOffset(page, size int) int {
	if size <= 0 {
		return 0
	}
	skipped := NormalizePage(page) - 1
	if skipped > math.MaxInt/size {
		return math.MaxInt
	}
	return skipped * size
}

// PastLastPage сообщает, что на странице page не может быть записей.
func PastLastPage(total int64, page, size int) bool {
	return NormalizePage(page) > TotalPages(total, size)
}
