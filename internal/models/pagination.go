package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
}

// PageRequest carries paging and sorting inputs shared by list filters.
type PageRequest struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Normalize clamps paging values to the supported range.
func (p PageRequest) Normalize() (page, size, offset int) {
	page = p.Page
	if page < 1 {
		page = 1
	}
	size = p.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size, (page - 1) * size
}

// Pagination builds the response metadata for a total row count.
func (p PageRequest) Pagination(total int) *Pagination {
	page, size, _ := p.Normalize()
	return &Pagination{Page: page, PageSize: size, TotalCount: total}
}
