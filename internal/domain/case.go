package domain

import "time"

// CaseType discriminates the two specialized repair case kinds.
type CaseType string

const (
	CaseTypeVehicle CaseType = "vehicle"
	CaseTypeBattery CaseType = "battery"
)

// CaseStatus enumerates lifecycle states shared by vehicle and battery cases.
type CaseStatus string

const (
	CaseStatusReceived   CaseStatus = "received"
	CaseStatusDiagnosed  CaseStatus = "diagnosed"
	CaseStatusInProgress CaseStatus = "in_progress"
	CaseStatusCompleted  CaseStatus = "completed"
	CaseStatusDelivered  CaseStatus = "delivered"
	CaseStatusOnHold     CaseStatus = "on_hold"
	CaseStatusCancelled  CaseStatus = "cancelled"
)

// IsTerminalCaseStatus reports whether a case status is final.
func IsTerminalCaseStatus(status CaseStatus) bool {
	return status == CaseStatusDelivered || status == CaseStatusCancelled
}

// VehicleCase is a vehicle repair workflow spawned from a ticket.
// The TicketID back-reference is immutable after creation.
type VehicleCase struct {
	ID                 string
	TicketID           string
	CustomerID         string
	VehicleMake        string
	VehicleModel       string
	VehicleRegNo       string
	VehicleYear        *int
	VINNumber          *string
	Status             CaseStatus
	InitialDiagnosis   *string
	DiagnosticNotes    *string
	RepairNotes        *string
	TechnicianNotes    *string
	AssignedTechnician *string
	LocationID         *string
	ReceivedAt         time.Time
	DeliveredAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	CreatedBy          string
	UpdatedBy          string
}

// BatteryType enumerates supported battery chemistries.
type BatteryType string

const (
	BatteryTypeLithiumIon BatteryType = "li-ion"
	BatteryTypeLFP        BatteryType = "lfp"
	BatteryTypeNMC        BatteryType = "nmc"
	BatteryTypeOther      BatteryType = "other"
)

// BatteryCase is a battery repair workflow spawned from a ticket.
// The TicketID back-reference is immutable after creation.
type BatteryCase struct {
	ID                 string
	TicketID           string
	CustomerID         string
	SerialNumber       string
	Brand              string
	Model              *string
	BatteryType        BatteryType
	Voltage            int
	CapacityAh         int
	Status             CaseStatus
	RepairNotes        *string
	TechnicianNotes    *string
	AssignedTechnician *string
	LocationID         *string
	ReceivedAt         time.Time
	DeliveredAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	CreatedBy          string
	UpdatedBy          string
}
