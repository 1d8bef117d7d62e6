package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of pgx operations the repositories need. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so the same repository code runs
// inside and outside transactions.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store bundles the repositories and provides atomic execution. Every
// multi-row operation of the core (triage, status change + history append)
// runs through Atomic so a crash cannot leave current status and latest
// history entry disagreeing.
type Store interface {
	Tickets() TicketRepository
	VehicleCases() VehicleCaseRepository
	BatteryCases() BatteryCaseRepository
	History() HistoryRepository
	Attachments() AttachmentRepository
	Technicians() TechnicianRepository

	// Atomic runs fn against a store bound to a single transaction,
	// committing on nil and rolling back on error. Nested calls reuse the
	// enclosing transaction.
	Atomic(ctx context.Context, fn func(Store) error) error
}

// SQLStore is the Postgres-backed Store.
type SQLStore struct {
	pool *pgxpool.Pool
	db   DB
}

// NewStore builds a SQLStore over a pgx pool.
func NewStore(pool *pgxpool.Pool) *SQLStore {
	return &SQLStore{pool: pool, db: pool}
}

func (s *SQLStore) Tickets() TicketRepository           { return &ticketRepository{db: s.db} }
func (s *SQLStore) VehicleCases() VehicleCaseRepository { return &vehicleCaseRepository{db: s.db} }
func (s *SQLStore) BatteryCases() BatteryCaseRepository { return &batteryCaseRepository{db: s.db} }
func (s *SQLStore) History() HistoryRepository          { return &historyRepository{db: s.db} }
func (s *SQLStore) Attachments() AttachmentRepository   { return &attachmentRepository{db: s.db} }
func (s *SQLStore) Technicians() TechnicianRepository   { return &technicianRepository{db: s.db} }

// Atomic opens a transaction when called on the pool-backed store and reuses
// the current transaction otherwise.
func (s *SQLStore) Atomic(ctx context.Context, fn func(Store) error) error {
	if s.pool == nil {
		return fn(s)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&SQLStore{db: tx})
	})
}
