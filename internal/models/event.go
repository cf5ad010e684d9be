package models

import (
	"time"
)

// DateLayout is the wire and query format of event dates.
const DateLayout = "2006-01-02"

type Event struct {
	ID                   uint      `json:"id" gorm:"primaryKey"`
	Name                 string    `json:"name" gorm:"not null;index"`
	InitialDate          time.Time `json:"initial_date" gorm:"type:date;not null;index"`
	FinalDate            time.Time `json:"final_date" gorm:"type:date;not null;index"`
	S3FolderName         string    `json:"s3_folder_name" gorm:"unique;not null"`
	SummaryFilename      *string   `json:"summary_filename"`
	MergedPapersFilename *string   `json:"merged_papers_filename"`
	AnalFilename         *string   `json:"anal_filename"`
	Papers               []Paper   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// PapersMerged reports whether the merged-papers artifact was already produced.
func (e *Event) PapersMerged() bool {
	return e.MergedPapersFilename != nil && *e.MergedPapersFilename != ""
}

type EventDTO struct {
	Name        string `json:"name" validate:"required,max=255"`
	InitialDate string `json:"initial_date" validate:"required,isodate"`
	FinalDate   string `json:"final_date" validate:"required,isodate"`
}

type EventResponse struct {
	ID                   uint    `json:"id"`
	Name                 string  `json:"name"`
	InitialDate          string  `json:"initial_date"`
	FinalDate            string  `json:"final_date"`
	S3FolderName         string  `json:"s3_folder_name"`
	SummaryFilename      *string `json:"summary_filename"`
	MergedPapersFilename *string `json:"merged_papers_filename"`
	AnalFilename         *string `json:"anal_filename"`
}

// NewEventResponse exposes stored keys as public URLs under publicURL.
func NewEventResponse(event *Event, publicURL string) EventResponse {
	return EventResponse{
		ID:                   event.ID,
		Name:                 event.Name,
		InitialDate:          event.InitialDate.Format(DateLayout),
		FinalDate:            event.FinalDate.Format(DateLayout),
		S3FolderName:         event.S3FolderName,
		SummaryFilename:      publicKey(publicURL, event.SummaryFilename),
		MergedPapersFilename: publicKey(publicURL, event.MergedPapersFilename),
		AnalFilename:         publicKey(publicURL, event.AnalFilename),
	}
}

func publicKey(publicURL string, key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	url := publicURL + *key
	return &url
}

type EventsPaginatedResponse struct {
	Items      []EventResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}
