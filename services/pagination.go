package services

// PageSize is the fixed number of posts per feed page. Page numbers are
// zero based; callers cannot change the size in this version.
const PageSize = 10

// pageOffset maps a page number to a row offset, clamping negatives to the
// first page.
func pageOffset(page int) int {
	if page < 0 {
		page = 0
	}
	return page * PageSize
}
