package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/e-wheels/workshop-service/internal/domain"
)

// VehicleCaseRepository encapsulates vehicle case persistence.
type VehicleCaseRepository interface {
	Create(ctx context.Context, vc *domain.VehicleCase) error
	GetByID(ctx context.Context, id string) (*domain.VehicleCase, error)

	// UpdateStatus is a compare-and-set write guarded by the observed
	// status. deliveredAt is stamped when the case reaches delivered.
	UpdateStatus(ctx context.Context, id string, observed, next domain.CaseStatus, deliveredAt *time.Time, actorID string) (bool, error)

	AssignTechnician(ctx context.Context, id, technicianID, actorID string) error
	UpdateNotes(ctx context.Context, id string, diagnostic, repair, technician *string, actorID string) error
}

type vehicleCaseRepository struct {
	db DB
}

const vehicleCaseColumns = `id, ticket_id, customer_id, vehicle_make, vehicle_model,
               vehicle_reg_no, vehicle_year, vin_number, status,
               initial_diagnosis, diagnostic_notes, repair_notes, technician_notes,
               assigned_technician, location_id, received_at, delivered_at,
               created_at, updated_at, created_by, updated_by`

func (r *vehicleCaseRepository) Create(ctx context.Context, vc *domain.VehicleCase) error {
	const query = `
        INSERT INTO vehicle_cases (ticket_id, customer_id, vehicle_make, vehicle_model,
            vehicle_reg_no, vehicle_year, vin_number, status, initial_diagnosis,
            location_id, received_at, created_by, updated_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW(),$11,$11)
        RETURNING id, received_at, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		vc.TicketID,
		vc.CustomerID,
		vc.VehicleMake,
		vc.VehicleModel,
		vc.VehicleRegNo,
		vc.VehicleYear,
		vc.VINNumber,
		vc.Status,
		vc.InitialDiagnosis,
		vc.LocationID,
		vc.CreatedBy,
	).Scan(&vc.ID, &vc.ReceivedAt, &vc.CreatedAt, &vc.UpdatedAt)
}

func (r *vehicleCaseRepository) GetByID(ctx context.Context, id string) (*domain.VehicleCase, error) {
	query := `SELECT ` + vehicleCaseColumns + ` FROM vehicle_cases WHERE id=$1`
	var vc domain.VehicleCase
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&vc.ID,
		&vc.TicketID,
		&vc.CustomerID,
		&vc.VehicleMake,
		&vc.VehicleModel,
		&vc.VehicleRegNo,
		&vc.VehicleYear,
		&vc.VINNumber,
		&vc.Status,
		&vc.InitialDiagnosis,
		&vc.DiagnosticNotes,
		&vc.RepairNotes,
		&vc.TechnicianNotes,
		&vc.AssignedTechnician,
		&vc.LocationID,
		&vc.ReceivedAt,
		&vc.DeliveredAt,
		&vc.CreatedAt,
		&vc.UpdatedAt,
		&vc.CreatedBy,
		&vc.UpdatedBy,
	); err != nil {
		return nil, err
	}
	return &vc, nil
}

func (r *vehicleCaseRepository) UpdateStatus(ctx context.Context, id string, observed, next domain.CaseStatus, deliveredAt *time.Time, actorID string) (bool, error) {
	const query = `
        UPDATE vehicle_cases SET status=$1, delivered_at=COALESCE($2, delivered_at),
            updated_by=$3, updated_at=NOW()
        WHERE id=$4 AND status=$5`
	cmd, err := r.db.Exec(ctx, query, next, deliveredAt, actorID, id, observed)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *vehicleCaseRepository) AssignTechnician(ctx context.Context, id, technicianID, actorID string) error {
	const query = `
        UPDATE vehicle_cases SET assigned_technician=$1, updated_by=$2, updated_at=NOW()
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

func (r *vehicleCaseRepository) UpdateNotes(ctx context.Context, id string, diagnostic, repair, technician *string, actorID string) error {
	const query = `
        UPDATE vehicle_cases SET
            diagnostic_notes=COALESCE($1, diagnostic_notes),
            repair_notes=COALESCE($2, repair_notes),
            technician_notes=COALESCE($3, technician_notes),
            updated_by=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.db.Exec(ctx, query, diagnostic, repair, technician, actorID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
