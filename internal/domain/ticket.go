package domain

import "time"

// TicketStatus enumerates lifecycle states for service tickets.
type TicketStatus string

const (
	TicketStatusReported        TicketStatus = "reported"
	TicketStatusTriaged         TicketStatus = "triaged"
	TicketStatusAssigned        TicketStatus = "assigned"
	TicketStatusInProgress      TicketStatus = "in_progress"
	TicketStatusWaitingApproval TicketStatus = "waiting_approval"
	TicketStatusCompleted       TicketStatus = "completed"
	TicketStatusDelivered       TicketStatus = "delivered"
	TicketStatusClosed          TicketStatus = "closed"
	TicketStatusCancelled       TicketStatus = "cancelled"
	TicketStatusOnHold          TicketStatus = "on_hold"
)

// Ticket is the customer-facing intake record for one reported problem.
type Ticket struct {
	ID            string
	TicketNumber  string
	CustomerID    string
	Symptom       string
	Description   *string
	VehicleMake   *string
	VehicleModel  *string
	VehicleRegNo  *string
	VehicleYear   *int
	Status        TicketStatus
	VehicleCaseID *string
	BatteryCaseID *string
	TriageNotes   *string
	TriagedAt     *time.Time
	TriagedBy     *string
	LocationID    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ClosedAt      *time.Time
	CreatedBy     string
	UpdatedBy     string
}

// IsTerminal reports whether the ticket reached a final status.
func (t *Ticket) IsTerminal() bool {
	return t.Status == TicketStatusClosed || t.Status == TicketStatusCancelled
}

// CaseID returns the linked case id for the given case type, if set.
func (t *Ticket) CaseID(caseType CaseType) *string {
	switch caseType {
	case CaseTypeVehicle:
		return t.VehicleCaseID
	case CaseTypeBattery:
		return t.BatteryCaseID
	}
	return nil
}
