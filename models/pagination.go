package models

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageParams is simple page/size pagination for history listings.
type PageParams struct {
	Page int
	Size int
}

func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Size
}

// Paged wraps one page of results with the total row count.
type Paged[T any] struct {
	Items []T
	Total int
	Page  int
	Size  int
}
