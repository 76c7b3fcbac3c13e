package calendar

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page описывает одну страницу элементов.
type Page[T any] struct {
	Items    []T // элементы на текущей странице
	Page     int // номер страницы (с 1)
	PageSize int // количество элементов на странице
	HasNext  bool
	HasPrev  bool
	Total    int // общее количество элементов
}

// Normalize приводит номер и размер страницы к допустимым значениям и считает offset.
func Normalize(page, pageSize int) (int, int, int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}
	return page, pageSize, (page - 1) * pageSize
}

// FromTotal собирает страницу из уже выбранных элементов и общего числа строк (LIMIT/OFFSET в БД).
func FromTotal[T any](items []T, page, pageSize int, total int64) Page[T] {
	page, pageSize, offset := Normalize(page, pageSize)
	return Page[T]{
		Items:    items,
		Page:     page,
		PageSize: pageSize,
		HasPrev:  page > 1,
		HasNext:  int64(offset+len(items)) < total,
		Total:    int(total),
	}
}
