package models

// Page is the validated pagination query shared by list endpoints.
type Page struct {
	Page     int `query:"page" validate:"min=1"`
	PageSize int `query:"page_size" validate:"min=1,max=100"`
}

func DefaultPage() Page {
	return Page{Page: 1, PageSize: 10}
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages rounds up; an empty set still has zero pages.
func (p Page) TotalPages(total int64) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
}

type Response struct {
	Detail string `json:"detail"`
}

// Hata response'u için helper
func ErrorResponse(detail string) Response {
	return Response{Detail: detail}
}

type HealthResponse struct {
	Status string `json:"status"`
}
