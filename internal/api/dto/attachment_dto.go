package dto

import (
	"time"

	"github.com/e-wheels/workshop-service/internal/domain"
)

// AttachmentResponse metadata for one uploaded media item.
type AttachmentResponse struct {
	ID              string                `json:"id"`
	TicketID        string                `json:"ticket_id"`
	CaseType        *domain.CaseType      `json:"case_type,omitempty"`
	CaseID          *string               `json:"case_id,omitempty"`
	Kind            domain.AttachmentKind `json:"kind"`
	FileName        string                `json:"file_name"`
	OriginalName    string                `json:"original_name"`
	StoragePath     string                `json:"storage_path"`
	SizeBytes       int64                 `json:"size_bytes"`
	MimeType        string                `json:"mime_type"`
	DurationSeconds *int                  `json:"duration_seconds,omitempty"`
	UploadedBy      string                `json:"uploaded_by"`
	UploadedAt      time.Time             `json:"uploaded_at"`
}
