package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/e-wheels/workshop-service/internal/domain"
)

// TicketFilter captures listing parameters for the intake queue.
type TicketFilter struct {
	Statuses    []domain.TicketStatus
	CustomerID  *string
	LocationID  *string
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence. The conditional update
// methods return whether the guarded write matched so callers can tell a
// lost race from success without a second read.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, number string) (*domain.Ticket, error)
	FindByCaseID(ctx context.Context, caseType domain.CaseType, caseID string) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	ListConnected(ctx context.Context, limit, offset int) ([]domain.Ticket, error)

	// LinkCase fills the write-once case slot, succeeding only while the
	// slot is still null. Returns false when the slot was already taken.
	LinkCase(ctx context.Context, ticketID string, caseType domain.CaseType, caseID, actorID string) (bool, error)

	// AppendTriageNote concatenates note onto triage_notes and stamps
	// triaged_at / triaged_by.
	AppendTriageNote(ctx context.Context, ticketID, note, actorID string) error

	// AdvanceToTriaged moves a ticket from reported to triaged. Returns
	// false when the ticket already progressed past reported.
	AdvanceToTriaged(ctx context.Context, ticketID, actorID string) (bool, error)

	// UpdateStatus performs a compare-and-set status write guarded by the
	// status the caller observed. Returns false when another writer moved
	// the ticket first.
	UpdateStatus(ctx context.Context, ticketID string, observed, next domain.TicketStatus, closedAt *time.Time, actorID string) (bool, error)
}

type ticketRepository struct {
	db DB
}

const ticketColumns = `id, ticket_number, customer_id, symptom, description,
               vehicle_make, vehicle_model, vehicle_reg_no, vehicle_year,
               status, vehicle_case_id, battery_case_id,
               triage_notes, triaged_at, triaged_by, location_id,
               created_at, updated_at, closed_at, created_by, updated_by`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO service_tickets (ticket_number, customer_id, symptom, description,
            vehicle_make, vehicle_model, vehicle_reg_no, vehicle_year,
            status, location_id, created_by, updated_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.CustomerID,
		ticket.Symptom,
		ticket.Description,
		ticket.VehicleMake,
		ticket.VehicleModel,
		ticket.VehicleRegNo,
		ticket.VehicleYear,
		ticket.Status,
		ticket.LocationID,
		ticket.CreatedBy,
		ticket.UpdatedBy,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM service_tickets WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM service_tickets WHERE ticket_number=$1`
	return r.fetchSingle(ctx, query, number)
}

func (r *ticketRepository) FindByCaseID(ctx context.Context, caseType domain.CaseType, caseID string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM service_tickets WHERE ` + caseColumn(caseType) + `=$1`
	return r.fetchSingle(ctx, query, caseID)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := scanTicket(r.db.QueryRow(ctx, query, arg), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := `SELECT ` + ticketColumns + ` FROM service_tickets`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		clauses = append(clauses, fmt.Sprintf("customer_id=$%d", len(args)))
	}
	if filter.LocationID != nil {
		args = append(args, *filter.LocationID)
		clauses = append(clauses, fmt.Sprintf("location_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(ticket_number) LIKE %s OR LOWER(COALESCE(vehicle_reg_no,'')) LIKE %s OR LOWER(symptom) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListConnected(ctx context.Context, limit, offset int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM service_tickets
        WHERE vehicle_case_id IS NOT NULL AND battery_case_id IS NOT NULL
        ORDER BY updated_at DESC LIMIT %d OFFSET %d`, ticketColumns, limit, offset)
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) LinkCase(ctx context.Context, ticketID string, caseType domain.CaseType, caseID, actorID string) (bool, error) {
	column := caseColumn(caseType)
	query := fmt.Sprintf(`
        UPDATE service_tickets SET %s=$1, updated_by=$2, updated_at=NOW()
        WHERE id=$3 AND %s IS NULL`, column, column)
	cmd, err := r.db.Exec(ctx, query, caseID, actorID, ticketID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ticketRepository) AppendTriageNote(ctx context.Context, ticketID, note, actorID string) error {
	const query = `
        UPDATE service_tickets SET
            triage_notes = CASE
                WHEN $1 = '' THEN triage_notes
                WHEN triage_notes IS NULL OR triage_notes = '' THEN $1
                ELSE triage_notes || E'\n' || $1
            END,
            triaged_at = NOW(),
            triaged_by = $2,
            updated_by = $2,
            updated_at = NOW()
        WHERE id=$3`
	cmd, err := r.db.Exec(ctx, query, note, actorID, ticketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) AdvanceToTriaged(ctx context.Context, ticketID, actorID string) (bool, error) {
	const query = `
        UPDATE service_tickets SET status=$1, updated_by=$2, updated_at=NOW()
        WHERE id=$3 AND status=$4`
	cmd, err := r.db.Exec(ctx, query,
		domain.TicketStatusTriaged, actorID, ticketID, domain.TicketStatusReported)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, ticketID string, observed, next domain.TicketStatus, closedAt *time.Time, actorID string) (bool, error) {
	const query = `
        UPDATE service_tickets SET status=$1, closed_at=$2, updated_by=$3, updated_at=NOW()
        WHERE id=$4 AND status=$5`
	cmd, err := r.db.Exec(ctx, query, next, closedAt, actorID, ticketID, observed)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func caseColumn(caseType domain.CaseType) string {
	if caseType == domain.CaseTypeBattery {
		return "battery_case_id"
	}
	return "vehicle_case_id"
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.CustomerID,
		&ticket.Symptom,
		&ticket.Description,
		&ticket.VehicleMake,
		&ticket.VehicleModel,
		&ticket.VehicleRegNo,
		&ticket.VehicleYear,
		&ticket.Status,
		&ticket.VehicleCaseID,
		&ticket.BatteryCaseID,
		&ticket.TriageNotes,
		&ticket.TriagedAt,
		&ticket.TriagedBy,
		&ticket.LocationID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ClosedAt,
		&ticket.CreatedBy,
		&ticket.UpdatedBy,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
