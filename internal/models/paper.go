package models

import (
	"time"
)

type Paper struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	PdfID      string    `json:"pdf_id" gorm:"not null;uniqueIndex:idx_papers_event_pdf"`
	Title      *string   `json:"title"`
	Authors    *string   `json:"authors"`
	Area       *string   `json:"area"`
	IsIgnored  *bool     `json:"is_ignored"`
	TotalPages int       `json:"total_pages" gorm:"not null;default:0"`
	EventID    uint      `json:"event_id" gorm:"not null;index;uniqueIndex:idx_papers_event_pdf"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (p *Paper) Ignored() bool {
	return p.IsIgnored != nil && *p.IsIgnored
}

// DisplayTitle falls back to the pdf id for papers without metadata.
func (p *Paper) DisplayTitle() string {
	if p.Title != nil && *p.Title != "" {
		return *p.Title
	}
	return p.PdfID
}

type PaperResponse struct {
	ID         uint    `json:"id"`
	PdfID      string  `json:"pdf_id"`
	Title      *string `json:"title"`
	Authors    *string `json:"authors"`
	Area       *string `json:"area"`
	IsIgnored  *bool   `json:"is_ignored"`
	TotalPages int     `json:"total_pages"`
	EventID    uint    `json:"event_id"`
}

func NewPaperResponse(p *Paper) PaperResponse {
	return PaperResponse{
		ID:         p.ID,
		PdfID:      p.PdfID,
		Title:      p.Title,
		Authors:    p.Authors,
		Area:       p.Area,
		IsIgnored:  p.IsIgnored,
		TotalPages: p.TotalPages,
		EventID:    p.EventID,
	}
}

type PapersPaginatedResponse struct {
	Items      []PaperResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// BatchPapersResponse is the per-row outcome of a CSV batch update.
type BatchPapersResponse struct {
	PdfID  string `json:"pdf_id"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}
