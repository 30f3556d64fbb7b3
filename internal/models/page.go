package models

type SortOrder struct {
	Property string
	Desc     bool
}

// Pageable selects a zero-based page of Size items ordered by Sort.
type Pageable struct {
	Page int
	Size int
	Sort []SortOrder
}

func (p Pageable) Offset() int {
	return p.Page * p.Size
}

type Page[T any] struct {
	Items    []T
	Total    int64
	Pageable Pageable
}

func NewPage[T any](items []T, total int64, pageable Pageable) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:    items,
		Total:    total,
		Pageable: pageable,
	}
}

func (p Page[T]) TotalPages() int {
	if p.Pageable.Size <= 0 {
		return 1
	}
	return int((p.Total + int64(p.Pageable.Size) - 1) / int64(p.Pageable.Size))
}

func (p Page[T]) HasNext() bool {
	return p.Pageable.Page+1 < p.TotalPages()
}

func (p Page[T]) HasPrevious() bool {
	return p.Pageable.Page > 0
}
