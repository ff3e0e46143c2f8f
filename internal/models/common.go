package models

// ErrorResponse is a standardized error response for API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Page is the list envelope used by paginated endpoints.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// ListParams carries the paging window and filters of a list query.
type ListParams struct {
	Page     int
	PageSize int
	Search   string
	IsActive *bool
	Ordering string
	// After is an explicit row offset used by cursor pagination.
	After int
}

func (p ListParams) Offset() int {
	if p.After > 0 {
		return p.After
	}
	return (p.Page - 1) * p.PageSize
}
