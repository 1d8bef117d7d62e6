package dto

import (
	"time"

	"github.com/e-wheels/workshop-service/internal/domain"
)

// VehicleCaseResponse full vehicle case representation.
type VehicleCaseResponse struct {
	ID                 string            `json:"id"`
	TicketID           string            `json:"ticket_id"`
	CustomerID         string            `json:"customer_id"`
	VehicleMake        string            `json:"vehicle_make"`
	VehicleModel       string            `json:"vehicle_model"`
	VehicleRegNo       string            `json:"vehicle_reg_no"`
	VehicleYear        *int              `json:"vehicle_year,omitempty"`
	VINNumber          *string           `json:"vin_number,omitempty"`
	Status             domain.CaseStatus `json:"status"`
	InitialDiagnosis   *string           `json:"initial_diagnosis,omitempty"`
	DiagnosticNotes    *string           `json:"diagnostic_notes,omitempty"`
	RepairNotes        *string           `json:"repair_notes,omitempty"`
	TechnicianNotes    *string           `json:"technician_notes,omitempty"`
	AssignedTechnician *string           `json:"assigned_technician,omitempty"`
	ReceivedAt         time.Time         `json:"received_at"`
	DeliveredAt        *time.Time        `json:"delivered_at,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// BatteryCaseResponse full battery case representation.
type BatteryCaseResponse struct {
	ID                 string             `json:"id"`
	TicketID           string             `json:"ticket_id"`
	CustomerID         string             `json:"customer_id"`
	SerialNumber       string             `json:"serial_number"`
	Brand              string             `json:"brand"`
	Model              *string            `json:"model,omitempty"`
	BatteryType        domain.BatteryType `json:"battery_type"`
	Voltage            int                `json:"voltage"`
	CapacityAh         int                `json:"capacity_ah"`
	Status             domain.CaseStatus  `json:"status"`
	RepairNotes        *string            `json:"repair_notes,omitempty"`
	TechnicianNotes    *string            `json:"technician_notes,omitempty"`
	AssignedTechnician *string            `json:"assigned_technician,omitempty"`
	ReceivedAt         time.Time          `json:"received_at"`
	DeliveredAt        *time.Time         `json:"delivered_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// AssignTechnicianRequest payload.
type AssignTechnicianRequest struct {
	TechnicianID string `json:"technician_id"`
}

// UpdateVehicleNotesRequest patches vehicle case notes. Nil fields are left
// unchanged.
type UpdateVehicleNotesRequest struct {
	DiagnosticNotes *string `json:"diagnostic_notes"`
	RepairNotes     *string `json:"repair_notes"`
	TechnicianNotes *string `json:"technician_notes"`
}

// UpdateBatteryNotesRequest patches battery case notes.
type UpdateBatteryNotesRequest struct {
	RepairNotes     *string `json:"repair_notes"`
	TechnicianNotes *string `json:"technician_notes"`
}
