package dto

import (
	"time"

	"github.com/e-wheels/workshop-service/internal/domain"
)

// CreateTicketRequest payload for intake.
type CreateTicketRequest struct {
	CustomerID   string  `json:"customer_id"`
	Symptom      string  `json:"symptom"`
	Description  *string `json:"description"`
	VehicleMake  *string `json:"vehicle_make"`
	VehicleModel *string `json:"vehicle_model"`
	VehicleRegNo *string `json:"vehicle_reg_no"`
	VehicleYear  *int    `json:"vehicle_year"`
}

// TriageRequest payload.
type TriageRequest struct {
	RouteTo string `json:"route_to"`
	Note    string `json:"note"`
}

// StatusChangeRequest payload for ticket and case status moves.
type StatusChangeRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// TicketResponse full ticket representation.
type TicketResponse struct {
	ID            string              `json:"id"`
	TicketNumber  string              `json:"ticket_number"`
	CustomerID    string              `json:"customer_id"`
	Symptom       string              `json:"symptom"`
	Description   *string             `json:"description,omitempty"`
	VehicleMake   *string             `json:"vehicle_make,omitempty"`
	VehicleModel  *string             `json:"vehicle_model,omitempty"`
	VehicleRegNo  *string             `json:"vehicle_reg_no,omitempty"`
	VehicleYear   *int                `json:"vehicle_year,omitempty"`
	Status        domain.TicketStatus `json:"status"`
	VehicleCaseID *string             `json:"vehicle_case_id,omitempty"`
	BatteryCaseID *string             `json:"battery_case_id,omitempty"`
	TriageNotes   *string             `json:"triage_notes,omitempty"`
	TriagedAt     *time.Time          `json:"triaged_at,omitempty"`
	TriagedBy     *string             `json:"triaged_by,omitempty"`
	LocationID    *string             `json:"location_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	ClosedAt      *time.Time          `json:"closed_at,omitempty"`
}

// TriageResponse reports the outcome of a triage run.
type TriageResponse struct {
	Ticket      TicketResponse       `json:"ticket"`
	VehicleCase *VehicleCaseResponse `json:"vehicle_case,omitempty"`
	BatteryCase *BatteryCaseResponse `json:"battery_case,omitempty"`
}

// HistoryEntryResponse one audit record.
type HistoryEntryResponse struct {
	ID             string    `json:"id"`
	EntityID       string    `json:"entity_id"`
	EntityKind     string    `json:"entity_kind"`
	PreviousStatus *string   `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	Note           *string   `json:"note,omitempty"`
	ChangedBy      string    `json:"changed_by"`
	ChangedAt      time.Time `json:"changed_at"`
}
