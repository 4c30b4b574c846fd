package domain

import "time"

type OcrStatus string

const (
	StatusPending    OcrStatus = "PENDING"
	StatusProcessing OcrStatus = "PROCESSING"
	StatusCompleted  OcrStatus = "COMPLETED"
	StatusFailed     OcrStatus = "FAILED"
)

// Terminal reports whether no further automatic transition is expected.
func (s OcrStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Active reports whether the document is still being processed server-side.
func (s OcrStatus) Active() bool {
	return s == StatusPending || s == StatusProcessing
}

type Document struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	FileName      string    `json:"fileName"`
	FileURL       string    `json:"fileUrl"`
	ExtractedText string    `json:"extractedText,omitempty"`
	Summary       string    `json:"summary,omitempty"`
	OcrStatus     OcrStatus `json:"ocrStatus"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
