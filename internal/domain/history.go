package domain

import "time"

// EntityKind identifies which status-bearing entity a history entry audits.
type EntityKind string

const (
	EntityKindTicket      EntityKind = "ticket"
	EntityKindVehicleCase EntityKind = "vehicle_case"
	EntityKindBatteryCase EntityKind = "battery_case"
)

// StatusHistoryEntry is an append-only audit record of one status transition.
// PreviousStatus is nil for creation events. Entries are immutable once
// written and ordered oldest-first per owning entity.
type StatusHistoryEntry struct {
	ID             string
	EntityID       string
	EntityKind     EntityKind
	PreviousStatus *string
	NewStatus      string
	Note           *string
	ChangedBy      string
	ChangedAt      time.Time
}
