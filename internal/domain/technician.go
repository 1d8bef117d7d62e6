package domain

import "time"

// TechnicianRole enumerates workshop staff roles.
type TechnicianRole string

const (
	RoleFrontDesk  TechnicianRole = "front_desk"
	RoleTechnician TechnicianRole = "technician"
	RoleManager    TechnicianRole = "manager"
	RoleAdmin      TechnicianRole = "admin"
)

// Technician is a workshop operator account used for actor identity.
type Technician struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         TechnicianRole
	LocationID   *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AsActor converts the technician into the actor stamped on history entries.
func (t *Technician) AsActor() Actor {
	return Actor{ID: t.ID, LocationID: t.LocationID}
}
