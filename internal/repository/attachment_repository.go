package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/e-wheels/workshop-service/internal/domain"
)

// AttachmentRepository persists attachment metadata. Rows never mutate their
// case association; replacement inserts a new row and deletes the old one.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) error
	GetByID(ctx context.Context, id string) (*domain.Attachment, error)
	ListByTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error)
	ListByCase(ctx context.Context, caseType domain.CaseType, caseID string) ([]domain.Attachment, error)
	Delete(ctx context.Context, id string) error
}

type attachmentRepository struct {
	db DB
}

const attachmentColumns = `id, ticket_id, case_type, case_id, kind, file_name, original_name,
               storage_path, size_bytes, mime_type, duration_seconds, uploaded_by, uploaded_at`

func (r *attachmentRepository) Create(ctx context.Context, attachment *domain.Attachment) error {
	const query = `
        INSERT INTO ticket_attachments (ticket_id, case_type, case_id, kind, file_name,
            original_name, storage_path, size_bytes, mime_type, duration_seconds, uploaded_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, uploaded_at`
	return r.db.QueryRow(ctx, query,
		attachment.TicketID,
		attachment.CaseType,
		attachment.CaseID,
		attachment.Kind,
		attachment.FileName,
		attachment.OriginalName,
		attachment.StoragePath,
		attachment.SizeBytes,
		attachment.MimeType,
		attachment.DurationSeconds,
		attachment.UploadedBy,
	).Scan(&attachment.ID, &attachment.UploadedAt)
}

func (r *attachmentRepository) GetByID(ctx context.Context, id string) (*domain.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM ticket_attachments WHERE id=$1`
	var attachment domain.Attachment
	if err := scanAttachment(r.db.QueryRow(ctx, query, id), &attachment); err != nil {
		return nil, err
	}
	return &attachment, nil
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM ticket_attachments
        WHERE ticket_id=$1 ORDER BY uploaded_at ASC`
	return r.list(ctx, query, ticketID)
}

func (r *attachmentRepository) ListByCase(ctx context.Context, caseType domain.CaseType, caseID string) ([]domain.Attachment, error) {
	query := `SELECT ` + attachmentColumns + ` FROM ticket_attachments
        WHERE case_type=$1 AND case_id=$2 ORDER BY uploaded_at ASC`
	return r.list(ctx, query, caseType, caseID)
}

func (r *attachmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM ticket_attachments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *attachmentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Attachment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attachment
	for rows.Next() {
		var attachment domain.Attachment
		if err := scanAttachment(rows, &attachment); err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}

func scanAttachment(row pgx.Row, attachment *domain.Attachment) error {
	return row.Scan(
		&attachment.ID,
		&attachment.TicketID,
		&attachment.CaseType,
		&attachment.CaseID,
		&attachment.Kind,
		&attachment.FileName,
		&attachment.OriginalName,
		&attachment.StoragePath,
		&attachment.SizeBytes,
		&attachment.MimeType,
		&attachment.DurationSeconds,
		&attachment.UploadedBy,
		&attachment.UploadedAt,
	)
}
