package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/e-wheels/workshop-service/internal/blob"
	"github.com/e-wheels/workshop-service/internal/config"
	"github.com/e-wheels/workshop-service/internal/domain"
	"github.com/e-wheels/workshop-service/internal/events"
	"github.com/e-wheels/workshop-service/internal/repository"
	"github.com/e-wheels/workshop-service/pkg/errorutil"
)

// AttachmentService stores media payloads and resolves their association:
// every attachment belongs to a ticket, and optionally to exactly one of the
// ticket's cases. The association is fixed at upload time.
type AttachmentService struct {
	store      repository.Store
	blobs      blob.Store
	cfg        config.BlobConfig
	dispatcher events.Dispatcher
}

// NewAttachmentService constructs the service.
func NewAttachmentService(store repository.Store, blobs blob.Store, cfg config.BlobConfig, dispatcher events.Dispatcher) *AttachmentService {
	return &AttachmentService{store: store, blobs: blobs, cfg: cfg, dispatcher: dispatcher}
}

// AttachmentUploadInput describes one upload.
type AttachmentUploadInput struct {
	TicketID        string
	CaseType        *domain.CaseType
	CaseID          *string
	Kind            domain.AttachmentKind
	OriginalName    string
	MimeType        string
	SizeBytes       int64
	DurationSeconds *int
	Payload         io.Reader
}

// Upload validates the association, stores the payload and records metadata.
func (s *AttachmentService) Upload(ctx context.Context, input AttachmentUploadInput, actor domain.Actor) (*domain.Attachment, error) {
	if err := validateKind(input.Kind); err != nil {
		return nil, err
	}
	if (input.CaseType == nil) != (input.CaseID == nil) {
		return nil, errorutil.NewInvalidAssociation("case_type and case_id must be provided together", nil)
	}

	ticket, err := s.store.Tickets().GetByID(ctx, input.TicketID)
	if err != nil {
		return nil, mapStoreErr(err, "ticket")
	}

	prefix := fmt.Sprintf("intakes/%s", ticket.ID)
	if input.CaseType != nil {
		prefix, err = s.resolveCaseScope(ctx, ticket, *input.CaseType, *input.CaseID)
		if err != nil {
			return nil, err
		}
	}

	fileName := storedFileName(input.OriginalName)
	storagePath := fmt.Sprintf("%s/%s", prefix, fileName)

	if err := s.blobs.Put(ctx, s.bucketFor(input.Kind), storagePath, input.Payload, input.SizeBytes, input.MimeType); err != nil {
		return nil, errorutil.NewPersistenceError(err)
	}

	attachment := &domain.Attachment{
		TicketID:        ticket.ID,
		CaseType:        input.CaseType,
		CaseID:          input.CaseID,
		Kind:            input.Kind,
		FileName:        fileName,
		OriginalName:    input.OriginalName,
		StoragePath:     storagePath,
		SizeBytes:       input.SizeBytes,
		MimeType:        input.MimeType,
		DurationSeconds: input.DurationSeconds,
		UploadedBy:      actor.ID,
	}
	if err := s.store.Attachments().Create(ctx, attachment); err != nil {
		// best-effort cleanup of the orphaned payload
		_ = s.blobs.Remove(ctx, s.bucketFor(input.Kind), storagePath)
		return nil, mapStoreErr(err, "attachment")
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventAttachmentUploaded,
			TicketID:  ticket.ID,
			Actor:     actor,
			Timestamp: time.Now(),
			Payload: events.AttachmentUploadedPayload{
				AttachmentID: attachment.ID,
				Kind:         attachment.Kind,
				CaseType:     attachment.CaseType,
				CaseID:       attachment.CaseID,
				OriginalName: attachment.OriginalName,
			},
		})
	}
	return attachment, nil
}

// Replace uploads a new payload with the same association as an existing
// attachment, then removes the old one. The association itself never changes.
func (s *AttachmentService) Replace(ctx context.Context, attachmentID string, input AttachmentUploadInput, actor domain.Actor) (*domain.Attachment, error) {
	existing, err := s.store.Attachments().GetByID(ctx, attachmentID)
	if err != nil {
		return nil, mapStoreErr(err, "attachment")
	}

	input.TicketID = existing.TicketID
	input.CaseType = existing.CaseType
	input.CaseID = existing.CaseID
	if input.Kind == "" {
		input.Kind = existing.Kind
	}

	replacement, err := s.Upload(ctx, input, actor)
	if err != nil {
		return nil, err
	}

	if err := s.store.Attachments().Delete(ctx, existing.ID); err != nil {
		return replacement, mapStoreErr(err, "attachment")
	}
	_ = s.blobs.Remove(ctx, s.bucketFor(existing.Kind), existing.StoragePath)
	return replacement, nil
}

// Delete removes metadata and payload.
func (s *AttachmentService) Delete(ctx context.Context, attachmentID string) error {
	existing, err := s.store.Attachments().GetByID(ctx, attachmentID)
	if err != nil {
		return mapStoreErr(err, "attachment")
	}
	if err := s.store.Attachments().Delete(ctx, existing.ID); err != nil {
		return mapStoreErr(err, "attachment")
	}
	_ = s.blobs.Remove(ctx, s.bucketFor(existing.Kind), existing.StoragePath)
	return nil
}

// ListForTicket returns every attachment on the ticket, case-scoped ones
// included.
func (s *AttachmentService) ListForTicket(ctx context.Context, ticketID string) ([]domain.Attachment, error) {
	if _, err := s.store.Tickets().GetByID(ctx, ticketID); err != nil {
		return nil, mapStoreErr(err, "ticket")
	}
	items, err := s.store.Attachments().ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, mapStoreErr(err, "attachment")
	}
	return items, nil
}

// ListForCase returns only attachments scoped to the given case. Ticket-level
// attachments of the owning ticket are not included.
func (s *AttachmentService) ListForCase(ctx context.Context, caseType domain.CaseType, caseID string) ([]domain.Attachment, error) {
	if _, err := caseKind(caseType); err != nil {
		return nil, err
	}
	items, err := s.store.Attachments().ListByCase(ctx, caseType, caseID)
	if err != nil {
		return nil, mapStoreErr(err, "attachment")
	}
	return items, nil
}

// resolveCaseScope checks that the case exists and belongs to the ticket, and
// returns the storage prefix for it.
func (s *AttachmentService) resolveCaseScope(ctx context.Context, ticket *domain.Ticket, caseType domain.CaseType, caseID string) (string, error) {
	switch caseType {
	case domain.CaseTypeVehicle:
		vc, err := s.store.VehicleCases().GetByID(ctx, caseID)
		if err != nil {
			return "", mapStoreErr(err, "vehicle case")
		}
		if vc.TicketID != ticket.ID {
			return "", errorutil.NewInvalidAssociation("vehicle case does not belong to the ticket",
				map[string]any{"ticket_id": ticket.ID, "case_id": caseID})
		}
		return fmt.Sprintf("vehicles/%s", caseID), nil
	case domain.CaseTypeBattery:
		bc, err := s.store.BatteryCases().GetByID(ctx, caseID)
		if err != nil {
			return "", mapStoreErr(err, "battery case")
		}
		if bc.TicketID != ticket.ID {
			return "", errorutil.NewInvalidAssociation("battery case does not belong to the ticket",
				map[string]any{"ticket_id": ticket.ID, "case_id": caseID})
		}
		return fmt.Sprintf("batteries/%s", caseID), nil
	default:
		return "", errorutil.NewValidationError("unknown case type", map[string]interface{}{"case_type": string(caseType)})
	}
}

func (s *AttachmentService) bucketFor(kind domain.AttachmentKind) string {
	if kind == domain.AttachmentKindAudio {
		return s.cfg.AudioBucket
	}
	return s.cfg.PhotoBucket
}

func validateKind(kind domain.AttachmentKind) error {
	switch kind {
	case domain.AttachmentKindPhoto, domain.AttachmentKindAudio, domain.AttachmentKindDocument:
		return nil
	default:
		return errorutil.NewValidationError("unknown attachment kind", map[string]interface{}{"kind": string(kind)})
	}
}

// storedFileName prefixes the sanitized original name with upload millis to
// keep object keys unique per scope.
func storedFileName(original string) string {
	base := filepath.Base(original)
	base = strings.ReplaceAll(base, " ", "_")
	if base == "." || base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), base)
}
