package catalog

const (
	// DefaultPageSize is the number of cards on a listing page.
	DefaultPageSize = 12

	// MaxPage bounds the requested page number.
	MaxPage = 10000
)

// Page is one slice of an ordered list.
type Page[T any] struct {
	Items      []T
	Number     int
	Size       int
	TotalPages int
	TotalItems int
}

// Paginate slices items into the 1-based page. A page past the end is
// empty; a page below 1 is page 1. Sizes below 1 use DefaultPageSize.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	p := Page[T]{
		Number:     page,
		Size:       size,
		TotalItems: total,
	}
	if total > 0 {
		p.TotalPages = (total-1)/size + 1
	}
	// Checked before multiplying so a huge page cannot overflow start.
	if page > p.TotalPages {
		p.Items = []T{}
		return p
	}
	start := (page - 1) * size
	end := total
	if size < total-start {
		end = start + size
	}
	p.Items = items[start:end:end]
	return p
}

// ShowControls is false for zero or one page.
func (p Page[T]) ShowControls() bool { return p.TotalPages > 1 }

func (p Page[T]) HasPrev() bool { return p.Number > 1 }

func (p Page[T]) HasNext() bool { return p.Number < p.TotalPages }

func (p Page[T]) Prev() int { return p.Number - 1 }

func (p Page[T]) Next() int { return p.Number + 1 }

// Pages lists every page number, for rendering controls.
func (p Page[T]) Pages() []int {
	out := make([]int, p.TotalPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
