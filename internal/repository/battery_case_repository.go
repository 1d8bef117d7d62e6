package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/e-wheels/workshop-service/internal/domain"
)

// BatteryCaseRepository encapsulates battery case persistence.
type BatteryCaseRepository interface {
	Create(ctx context.Context, bc *domain.BatteryCase) error
	GetByID(ctx context.Context, id string) (*domain.BatteryCase, error)
	UpdateStatus(ctx context.Context, id string, observed, next domain.CaseStatus, deliveredAt *time.Time, actorID string) (bool, error)
	AssignTechnician(ctx context.Context, id, technicianID, actorID string) error
	UpdateNotes(ctx context.Context, id string, repair, technician *string, actorID string) error
}

type batteryCaseRepository struct {
	db DB
}

const batteryCaseColumns = `id, ticket_id, customer_id, serial_number, brand, model,
               battery_type, voltage, capacity_ah, status,
               repair_notes, technician_notes, assigned_technician, location_id,
               received_at, delivered_at, created_at, updated_at, created_by, updated_by`

func (r *batteryCaseRepository) Create(ctx context.Context, bc *domain.BatteryCase) error {
	const query = `
        INSERT INTO battery_cases (ticket_id, customer_id, serial_number, brand, model,
            battery_type, voltage, capacity_ah, status, repair_notes,
            location_id, received_at, created_by, updated_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW(),$12,$12)
        RETURNING id, received_at, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		bc.TicketID,
		bc.CustomerID,
		bc.SerialNumber,
		bc.Brand,
		bc.Model,
		bc.BatteryType,
		bc.Voltage,
		bc.CapacityAh,
		bc.Status,
		bc.RepairNotes,
		bc.LocationID,
		bc.CreatedBy,
	).Scan(&bc.ID, &bc.ReceivedAt, &bc.CreatedAt, &bc.UpdatedAt)
}

func (r *batteryCaseRepository) GetByID(ctx context.Context, id string) (*domain.BatteryCase, error) {
	query := `SELECT ` + batteryCaseColumns + ` FROM battery_cases WHERE id=$1`
	var bc domain.BatteryCase
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&bc.ID,
		&bc.TicketID,
		&bc.CustomerID,
		&bc.SerialNumber,
		&bc.Brand,
		&bc.Model,
		&bc.BatteryType,
		&bc.Voltage,
		&bc.CapacityAh,
		&bc.Status,
		&bc.RepairNotes,
		&bc.TechnicianNotes,
		&bc.AssignedTechnician,
		&bc.LocationID,
		&bc.ReceivedAt,
		&bc.DeliveredAt,
		&bc.CreatedAt,
		&bc.UpdatedAt,
		&bc.CreatedBy,
		&bc.UpdatedBy,
	); err != nil {
		return nil, err
	}
	return &bc, nil
}

func (r *batteryCaseRepository) UpdateStatus(ctx context.Context, id string, observed, next domain.CaseStatus, deliveredAt *time.Time, actorID string) (bool, error) {
	const query = `
        UPDATE battery_cases SET status=$1, delivered_at=COALESCE($2, delivered_at),
            updated_by=$3, updated_at=NOW()
        WHERE id=$4 AND status=$5`
	cmd, err := r.db.Exec(ctx, query, next, deliveredAt, actorID, id, observed)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *batteryCaseRepository) AssignTechnician(ctx context.Context, id, technicianID, actorID string) error {
	const query = `
        UPDATE battery_cases SET assigned_technician=$1, updated_by=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query, technicianID, actorID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *batteryCaseRepository) UpdateNotes(ctx context.Context, id string, repair, technician *string, actorID string) error {
	const query = `
        UPDATE battery_cases SET
            repair_notes=COALESCE($1, repair_notes),
            technician_notes=COALESCE($2, technician_notes),
            updated_by=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.db.Exec(ctx, query, repair, technician, actorID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
