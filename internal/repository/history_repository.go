package repository

import (
	"context"
	"fmt"

	"github.com/e-wheels/workshop-service/internal/domain"
)

// HistoryRepository stores append-only status audit entries. Entries are
// never updated or deleted; listing is oldest-first for timeline rendering.
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.StatusHistoryEntry) error
	ListByEntity(ctx context.Context, kind domain.EntityKind, entityID string) ([]domain.StatusHistoryEntry, error)
	Latest(ctx context.Context, kind domain.EntityKind, entityID string) (*domain.StatusHistoryEntry, error)
}

type historyRepository struct {
	db DB
}

// historyTables maps entity kinds to their audit tables. Each table shares
// the same column shape apart from the owner id column.
var historyTables = map[domain.EntityKind]struct {
	table    string
	ownerCol string
}{
	domain.EntityKindTicket:      {table: "ticket_status_history", ownerCol: "ticket_id"},
	domain.EntityKindVehicleCase: {table: "vehicle_case_status_history", ownerCol: "case_id"},
	domain.EntityKindBatteryCase: {table: "battery_case_status_history", ownerCol: "case_id"},
}

func (r *historyRepository) Append(ctx context.Context, entry *domain.StatusHistoryEntry) error {
	tbl, ok := historyTables[entry.EntityKind]
	if !ok {
		return fmt.Errorf("unknown entity kind %q", entry.EntityKind)
	}
	query := fmt.Sprintf(`
        INSERT INTO %s (%s, previous_status, new_status, note, changed_by)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, changed_at`, tbl.table, tbl.ownerCol)
	return r.db.QueryRow(ctx, query,
		entry.EntityID,
		entry.PreviousStatus,
		entry.NewStatus,
		entry.Note,
		entry.ChangedBy,
	).Scan(&entry.ID, &entry.ChangedAt)
}

func (r *historyRepository) ListByEntity(ctx context.Context, kind domain.EntityKind, entityID string) ([]domain.StatusHistoryEntry, error) {
	tbl, ok := historyTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	query := fmt.Sprintf(`
        SELECT id, %s, previous_status, new_status, note, changed_by, changed_at
        FROM %s WHERE %s=$1 ORDER BY changed_at ASC, id ASC`, tbl.ownerCol, tbl.table, tbl.ownerCol)
	rows, err := r.db.Query(ctx, query, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.StatusHistoryEntry
	for rows.Next() {
		entry := domain.StatusHistoryEntry{EntityKind: kind}
		if err := rows.Scan(
			&entry.ID,
			&entry.EntityID,
			&entry.PreviousStatus,
			&entry.NewStatus,
			&entry.Note,
			&entry.ChangedBy,
			&entry.ChangedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *historyRepository) Latest(ctx context.Context, kind domain.EntityKind, entityID string) (*domain.StatusHistoryEntry, error) {
	tbl, ok := historyTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	query := fmt.Sprintf(`
        SELECT id, %s, previous_status, new_status, note, changed_by, changed_at
        FROM %s WHERE %s=$1 ORDER BY changed_at DESC, id DESC LIMIT 1`, tbl.ownerCol, tbl.table, tbl.ownerCol)
	entry := domain.StatusHistoryEntry{EntityKind: kind}
	if err := r.db.QueryRow(ctx, query, entityID).Scan(
		&entry.ID,
		&entry.EntityID,
		&entry.PreviousStatus,
		&entry.NewStatus,
		&entry.Note,
		&entry.ChangedBy,
		&entry.ChangedAt,
	); err != nil {
		return nil, err
	}
	return &entry, nil
}
