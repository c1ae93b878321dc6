package catalog

import "github.com/qyinm/savorytui/types"

// Paginator slices the derived collection into fixed-size pages.
// Pages are 1-based.
type Paginator struct {
	items    []types.MenuItem
	pageSize int
	page     int
}

// NewPaginator creates a paginator on page 1 of an empty collection.
func NewPaginator(pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultConfig().PageSize
	}
	return &Paginator{pageSize: pageSize, page: 1}
}

func (p *Paginator) reset(items []types.MenuItem) {
	p.items = items
	p.page = 1
}

// Page returns the current page number.
func (p *Paginator) Page() int { return p.page }

// PageSize returns the configured number of items per page.
func (p *Paginator) PageSize() int { return p.pageSize }

// Len returns the number of items being paged.
func (p *Paginator) Len() int { return len(p.items) }

// TotalPages is never below 1, so an empty collection still has page 1.
func (p *Paginator) TotalPages() int {
	n := (len(p.items) + p.pageSize - 1) / p.pageSize
	return max(1, n)
}

// ChangePage moves to page n. Requests outside [1, TotalPages] are ignored
// and reported as false.
func (p *Paginator) ChangePage(n int) bool {
	if n < 1 || n > p.TotalPages() {
		return false
	}
	p.page = n
	return true
}

// Next moves one page forward if possible.
func (p *Paginator) Next() bool { return p.ChangePage(p.page + 1) }

// Prev moves one page back if possible.
func (p *Paginator) Prev() bool { return p.ChangePage(p.page - 1) }

// Bounds returns the half-open index range of the current page.
func (p *Paginator) Bounds() (start, end int) {
	start = (p.page - 1) * p.pageSize
	end = min(start+p.pageSize, len(p.items))
	if start > end {
		start = end
	}
	return start, end
}

// CurrentPageItems returns a copy of the items on the current page.
func (p *Paginator) CurrentPageItems() []types.MenuItem {
	start, end := p.Bounds()
	return clone(p.items[start:end])
}

// ControlsVisible reports whether page controls should be shown at all.
func (p *Paginator) ControlsVisible() bool {
	return p.TotalPages() > 1
}
