package events

import (
	"time"

	"github.com/e-wheels/workshop-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket_created"
	EventTicketTriaged      EventType = "ticket_triaged"
	EventTicketStatusMoved  EventType = "ticket_status_changed"
	EventCaseStatusMoved    EventType = "case_status_changed"
	EventAttachmentUploaded EventType = "attachment_uploaded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	TicketID  string       `json:"ticket_id"`
	Actor     domain.Actor `json:"actor"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   interface{}  `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketNumber string  `json:"ticket_number"`
	CustomerID   string  `json:"customer_id"`
	Symptom      string  `json:"symptom"`
	VehicleRegNo *string `json:"vehicle_reg_no,omitempty"`
}

// TicketTriagedPayload payload.
type TicketTriagedPayload struct {
	TicketNumber  string  `json:"ticket_number"`
	RouteTo       string  `json:"route_to"`
	VehicleCaseID *string `json:"vehicle_case_id,omitempty"`
	BatteryCaseID *string `json:"battery_case_id,omitempty"`
	Note          string  `json:"note,omitempty"`
}

// TicketStatusMovedPayload payload.
type TicketStatusMovedPayload struct {
	TicketNumber string              `json:"ticket_number"`
	OldStatus    domain.TicketStatus `json:"old_status"`
	NewStatus    domain.TicketStatus `json:"new_status"`
	Note         string              `json:"note,omitempty"`
}

// CaseStatusMovedPayload payload.
type CaseStatusMovedPayload struct {
	CaseType  domain.CaseType   `json:"case_type"`
	CaseID    string            `json:"case_id"`
	OldStatus domain.CaseStatus `json:"old_status"`
	NewStatus domain.CaseStatus `json:"new_status"`
	Note      string            `json:"note,omitempty"`
}

// AttachmentUploadedPayload payload.
type AttachmentUploadedPayload struct {
	AttachmentID string                `json:"attachment_id"`
	Kind         domain.AttachmentKind `json:"kind"`
	CaseType     *domain.CaseType      `json:"case_type,omitempty"`
	CaseID       *string               `json:"case_id,omitempty"`
	OriginalName string                `json:"original_name"`
}
