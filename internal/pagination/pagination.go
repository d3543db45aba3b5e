// Package pagination разбивает списки на страницы на стороне клиента.
package pagination

// Page одна страница списка, номера страниц с нуля
type Page[T any] struct {
	Items  []T
	Number int
	Total  int // всего страниц, минимум 1
	Size   int
	Count  int // всего элементов
}

// HasPrev есть ли предыдущая страница
func (p Page[T]) HasPrev() bool {
	return p.Number > 0
}

// HasNext есть ли следующая страница
func (p Page[T]) HasNext() bool {
	return p.Number < p.Total-1
}

// Paginate возвращает страницу page размером size.
// Номер страницы приводится к допустимому диапазону.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = 5
	}

	total := (len(items) + size - 1) / size
	if total == 0 {
		total = 1
	}
	if page < 0 {
		page = 0
	}
	if page > total-1 {
		page = total - 1
	}

	start := page * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	return Page[T]{
		Items:  items[start:end],
		Number: page,
		Total:  total,
		Size:   size,
		Count:  len(items),
	}
}
