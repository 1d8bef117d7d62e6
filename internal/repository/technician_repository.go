package repository

import (
	"context"

	"github.com/e-wheels/workshop-service/internal/domain"
)

// TechnicianRepository resolves workshop operator accounts.
type TechnicianRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Technician, error)
	GetByEmail(ctx context.Context, email string) (*domain.Technician, error)
	Create(ctx context.Context, technician *domain.Technician) error
}

type technicianRepository struct {
	db DB
}

const technicianColumns = `id, email, full_name, password_hash, role, location_id, is_active, created_at, updated_at`

func (r *technicianRepository) GetByID(ctx context.Context, id string) (*domain.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *technicianRepository) GetByEmail(ctx context.Context, email string) (*domain.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE LOWER(email)=LOWER($1)`
	return r.fetchSingle(ctx, query, email)
}

func (r *technicianRepository) Create(ctx context.Context, technician *domain.Technician) error {
	const query = `
        INSERT INTO technicians (email, full_name, password_hash, role, location_id, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		technician.Email,
		technician.FullName,
		technician.PasswordHash,
		technician.Role,
		technician.LocationID,
		technician.IsActive,
	).Scan(&technician.ID, &technician.CreatedAt, &technician.UpdatedAt)
}

func (r *technicianRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Technician, error) {
	var technician domain.Technician
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&technician.ID,
		&technician.Email,
		&technician.FullName,
		&technician.PasswordHash,
		&technician.Role,
		&technician.LocationID,
		&technician.IsActive,
		&technician.CreatedAt,
		&technician.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &technician, nil
}
