package shared

// Filter defines common list query options shared by repositories.
// Pagination is skipped entirely when PageSize is zero.
type Filter struct {
	Page     int
	PageSize int
	Search   string
	OrderBy  string
	OrderDir string
}

// Offset returns the row offset implied by Page/PageSize
func (f Filter) Offset() int {
	if f.Page <= 1 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
