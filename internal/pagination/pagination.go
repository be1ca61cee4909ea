// Package pagination вычисляет видимое окно номеров страниц для навигации
// по спискам. Алгоритм не зависит от базы индексации: работает с номерами
// 0..totalPages-1, вызывающий с нумерацией от единицы сдвигает на один.
package pagination

// Ellipsis - маркер пропуска страниц в окне
const Ellipsis = -1

// maxVisible - максимум номеров страниц без учёта маркеров пропуска
const maxVisible = 5

// Window возвращает окно номеров страниц с маркерами пропуска.
// Инварианты: первая, последняя и текущая страницы всегда видимы,
// длина результата не превышает maxVisible+2.
func Window(page, totalPages int) []int {
	if totalPages <= 0 {
		return []int{}
	}

	// Все страницы помещаются - окно без пропусков
	if totalPages <= maxVisible {
		window := make([]int, totalPages)
		for i := range window {
			window[i] = i
		}
		return window
	}

	last := totalPages - 1

	switch {
	case page <= 2:
		// Текущая страница у левого края
		return []int{0, 1, 2, 3, Ellipsis, last}
	case page >= totalPages-3:
		// Текущая страница у правого края
		return []int{0, Ellipsis, last - 3, last - 2, last - 1, last}
	default:
		// Текущая страница в середине, пропуски с обеих сторон
		return []int{0, Ellipsis, page - 1, page, page + 1, Ellipsis, last}
	}
}

// Slice возвращает границы [start, end) для локальной нарезки списка
// из total элементов на страницы по perPage. Страница нумеруется с нуля.
func Slice(total, page, perPage int) (int, int) {
	if total <= 0 || perPage <= 0 || page < 0 {
		return 0, 0
	}

	start := page * perPage
	if start >= total {
		return 0, 0
	}

	end := start + perPage
	if end > total {
		end = total
	}
	return start, end
}

// TotalPages возвращает число страниц для total элементов по perPage на странице
func TotalPages(total, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
