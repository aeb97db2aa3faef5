package domain

type Page struct {
	Number int
	Size   int
}

// NewPage returns a 1-indexed page, falling back to the first page of
// DefaultPageSize items for non positive values.
func NewPage(pageNumber, pageSize int) Page {
	pNumber := 1
	if pageNumber > 0 {
		pNumber = pageNumber
	}

	pSize := DefaultPageSize
	if pageSize > 0 {
		pSize = pageSize
	}

	return Page{
		Number: pNumber,
		Size:   pSize,
	}
}

// PageOf returns the 1-indexed number of the page containing the item at the
// given 1-indexed position, ie. ceil(position / size).
func (p Page) PageOf(position int) int {
	if position <= 0 {
		return 0
	}
	return (position + p.Size - 1) / p.Size
}

// Contains returns whether the item at the given 1-indexed position belongs
// to this page.
func (p Page) Contains(position int) bool {
	return p.PageOf(position) == p.Number
}
