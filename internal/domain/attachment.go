package domain

import "time"

// AttachmentKind distinguishes uploaded media types.
type AttachmentKind string

const (
	AttachmentKindPhoto    AttachmentKind = "photo"
	AttachmentKindAudio    AttachmentKind = "audio"
	AttachmentKindDocument AttachmentKind = "document"
)

// Attachment is one uploaded media item tied to a ticket and optionally
// scoped to one of its cases. The case association never changes after
// creation; replacement constructs a new row carrying the same association.
type Attachment struct {
	ID              string
	TicketID        string
	CaseType        *CaseType
	CaseID          *string
	Kind            AttachmentKind
	FileName        string
	OriginalName    string
	StoragePath     string
	SizeBytes       int64
	MimeType        string
	DurationSeconds *int
	UploadedBy      string
	UploadedAt      time.Time
}

// IsCaseScoped reports whether the attachment is bound to a specific case.
func (a *Attachment) IsCaseScoped() bool {
	return a.CaseType != nil && a.CaseID != nil
}
