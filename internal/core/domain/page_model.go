package domain

import "math"

const (
	defaultPageNumber = 1
	defaultPageSize   = 10
)

// Page is the pagination model used by listing queries. Numbering starts
// from 1.
type Page struct {
	Number int
	Size   int
}

// NewPage returns a page with sane defaults for non positive arguments.
func NewPage(pageNumber, pageSize int) Page {
	return Page{Number: pageNumber, Size: pageSize}.normalize()
}

// Offset returns the number of items preceding the page and the max number
// of items in it. ok is false if the page starts beyond any addressable
// index, hence it's always empty.
func (p Page) Offset() (offset, limit int, ok bool) {
	p = p.normalize()
	if p.Number-1 > math.MaxInt/p.Size {
		return 0, 0, false
	}
	return (p.Number - 1) * p.Size, p.Size, true
}

// Bounds returns the [from, to) indexes of the page over a list of the given
// length.
func (p Page) Bounds(length int) (int, int) {
	if length <= 0 {
		return 0, 0
	}
	p = p.normalize()
	if p.Number-1 > length/p.Size {
		return length, length
	}
	from := (p.Number - 1) * p.Size
	to := length
	if p.Size < length-from {
		to = from + p.Size
	}
	return from, to
}

func (p Page) normalize() Page {
	if p.Number <= 0 {
		p.Number = defaultPageNumber
	}
	if p.Size <= 0 {
		p.Size = defaultPageSize
	}
	return p
}
