package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/e-wheels/workshop-service/internal/domain"
	"github.com/e-wheels/workshop-service/internal/events"
	"github.com/e-wheels/workshop-service/internal/repository"
	"github.com/e-wheels/workshop-service/internal/status"
	"github.com/e-wheels/workshop-service/pkg/errorutil"
)

// LifecycleService validates and applies status changes on tickets and
// cases. Each accepted change writes the entity row and its history entry in
// one transaction; a writer whose observed status went stale is rejected.
type LifecycleService struct {
	store      repository.Store
	dispatcher events.Dispatcher
}

// NewLifecycleService constructs the service.
func NewLifecycleService(store repository.Store, dispatcher events.Dispatcher) *LifecycleService {
	return &LifecycleService{store: store, dispatcher: dispatcher}
}

// ChangeTicketStatus moves a ticket to next after state-machine validation.
func (s *LifecycleService) ChangeTicketStatus(ctx context.Context, ticketID string, next domain.TicketStatus, note string, actor domain.Actor) (*domain.Ticket, error) {
	var (
		updated   *domain.Ticket
		oldStatus domain.TicketStatus
	)
	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		ticket, err := tx.Tickets().GetByID(ctx, ticketID)
		if err != nil {
			return mapStoreErr(err, "ticket")
		}
		oldStatus = ticket.Status

		if ticket.Status == domain.TicketStatusOnHold && next != domain.TicketStatusCancelled {
			preHold, err := s.preHoldStatus(ctx, tx, domain.EntityKindTicket, ticket.ID)
			if err != nil {
				return err
			}
			if err := status.ValidateTicketResume(next, domain.TicketStatus(preHold)); err != nil {
				return err
			}
		} else if err := status.ValidateTicketTransition(ticket.Status, next); err != nil {
			return err
		}

		var closedAt *time.Time
		if next == domain.TicketStatusClosed || next == domain.TicketStatusCancelled {
			now := time.Now()
			closedAt = &now
		}

		matched, err := tx.Tickets().UpdateStatus(ctx, ticket.ID, ticket.Status, next, closedAt, actor.ID)
		if err != nil {
			return mapStoreErr(err, "ticket")
		}
		if !matched {
			return newWriteConflict("ticket")
		}

		prev := string(ticket.Status)
		entry := &domain.StatusHistoryEntry{
			EntityID:       ticket.ID,
			EntityKind:     domain.EntityKindTicket,
			PreviousStatus: &prev,
			NewStatus:      string(next),
			Note:           optionalNote(note),
			ChangedBy:      actor.ID,
		}
		if err := tx.History().Append(ctx, entry); err != nil {
			return mapStoreErr(err, "ticket history")
		}

		updated, err = tx.Tickets().GetByID(ctx, ticket.ID)
		if err != nil {
			return mapStoreErr(err, "ticket")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishTicketMoved(ctx, updated, oldStatus, next, note, actor)
	return updated, nil
}

// ChangeCaseStatus moves a vehicle or battery case to next. Reaching
// delivered stamps the delivered timestamp used for turnaround reporting.
func (s *LifecycleService) ChangeCaseStatus(ctx context.Context, caseType domain.CaseType, caseID string, next domain.CaseStatus, note string, actor domain.Actor) error {
	kind, err := caseKind(caseType)
	if err != nil {
		return err
	}

	var (
		oldStatus domain.CaseStatus
		ticketID  string
	)
	err = s.store.Atomic(ctx, func(tx repository.Store) error {
		current, err := s.caseStatus(ctx, tx, caseType, caseID)
		if err != nil {
			return err
		}
		oldStatus = current
		if ticket, err := tx.Tickets().FindByCaseID(ctx, caseType, caseID); err == nil {
			ticketID = ticket.ID
		}

		if current == domain.CaseStatusOnHold && next != domain.CaseStatusCancelled {
			preHold, err := s.preHoldStatus(ctx, tx, kind, caseID)
			if err != nil {
				return err
			}
			if err := status.ValidateCaseResume(next, domain.CaseStatus(preHold)); err != nil {
				return err
			}
		} else if err := status.ValidateCaseTransition(current, next); err != nil {
			return err
		}

		var deliveredAt *time.Time
		if next == domain.CaseStatusDelivered {
			now := time.Now()
			deliveredAt = &now
		}

		var matched bool
		switch caseType {
		case domain.CaseTypeVehicle:
			matched, err = tx.VehicleCases().UpdateStatus(ctx, caseID, current, next, deliveredAt, actor.ID)
		case domain.CaseTypeBattery:
			matched, err = tx.BatteryCases().UpdateStatus(ctx, caseID, current, next, deliveredAt, actor.ID)
		}
		if err != nil {
			return mapStoreErr(err, string(caseType)+" case")
		}
		if !matched {
			return newWriteConflict(string(caseType) + " case")
		}

		prev := string(current)
		entry := &domain.StatusHistoryEntry{
			EntityID:       caseID,
			EntityKind:     kind,
			PreviousStatus: &prev,
			NewStatus:      string(next),
			Note:           optionalNote(note),
			ChangedBy:      actor.ID,
		}
		if err := tx.History().Append(ctx, entry); err != nil {
			return mapStoreErr(err, "case history")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publishCaseMoved(ctx, ticketID, caseType, caseID, oldStatus, next, note, actor)
	return nil
}

// AssignTechnician sets the technician responsible for a case.
func (s *LifecycleService) AssignTechnician(ctx context.Context, caseType domain.CaseType, caseID, technicianID string, actor domain.Actor) error {
	if _, err := caseKind(caseType); err != nil {
		return err
	}
	if _, err := s.store.Technicians().GetByID(ctx, technicianID); err != nil {
		return mapStoreErr(err, "technician")
	}
	var err error
	switch caseType {
	case domain.CaseTypeVehicle:
		err = s.store.VehicleCases().AssignTechnician(ctx, caseID, technicianID, actor.ID)
	case domain.CaseTypeBattery:
		err = s.store.BatteryCases().AssignTechnician(ctx, caseID, technicianID, actor.ID)
	}
	return mapStoreErr(err, string(caseType)+" case")
}

// UpdateVehicleNotes patches the free-text note fields of a vehicle case.
func (s *LifecycleService) UpdateVehicleNotes(ctx context.Context, caseID string, diagnostic, repair, technician *string, actor domain.Actor) error {
	err := s.store.VehicleCases().UpdateNotes(ctx, caseID, diagnostic, repair, technician, actor.ID)
	return mapStoreErr(err, "vehicle case")
}

// UpdateBatteryNotes patches the free-text note fields of a battery case.
func (s *LifecycleService) UpdateBatteryNotes(ctx context.Context, caseID string, repair, technician *string, actor domain.Actor) error {
	err := s.store.BatteryCases().UpdateNotes(ctx, caseID, repair, technician, actor.ID)
	return mapStoreErr(err, "battery case")
}

// ListHistory returns the audit timeline for an entity, oldest first.
func (s *LifecycleService) ListHistory(ctx context.Context, kind domain.EntityKind, entityID string) ([]domain.StatusHistoryEntry, error) {
	if err := s.ensureEntityExists(ctx, kind, entityID); err != nil {
		return nil, err
	}
	entries, err := s.store.History().ListByEntity(ctx, kind, entityID)
	if err != nil {
		return nil, mapStoreErr(err, "history")
	}
	return entries, nil
}

// preHoldStatus resolves the status an entity held immediately before
// entering on_hold, from the hold entry's previous_status column.
func (s *LifecycleService) preHoldStatus(ctx context.Context, tx repository.Store, kind domain.EntityKind, entityID string) (string, error) {
	latest, err := tx.History().Latest(ctx, kind, entityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errorutil.NewInvalidTransition(string(domain.TicketStatusOnHold), "unknown")
		}
		return "", mapStoreErr(err, "history")
	}
	if latest.NewStatus != string(domain.TicketStatusOnHold) || latest.PreviousStatus == nil {
		return "", errorutil.NewInvalidTransition(string(domain.TicketStatusOnHold), "unknown")
	}
	return *latest.PreviousStatus, nil
}

func (s *LifecycleService) caseStatus(ctx context.Context, tx repository.Store, caseType domain.CaseType, caseID string) (domain.CaseStatus, error) {
	switch caseType {
	case domain.CaseTypeVehicle:
		vc, err := tx.VehicleCases().GetByID(ctx, caseID)
		if err != nil {
			return "", mapStoreErr(err, "vehicle case")
		}
		return vc.Status, nil
	case domain.CaseTypeBattery:
		bc, err := tx.BatteryCases().GetByID(ctx, caseID)
		if err != nil {
			return "", mapStoreErr(err, "battery case")
		}
		return bc.Status, nil
	}
	return "", errorutil.NewValidationError("unknown case type", map[string]any{"case_type": string(caseType)})
}

func (s *LifecycleService) ensureEntityExists(ctx context.Context, kind domain.EntityKind, entityID string) error {
	switch kind {
	case domain.EntityKindTicket:
		_, err := s.store.Tickets().GetByID(ctx, entityID)
		return mapStoreErr(err, "ticket")
	case domain.EntityKindVehicleCase:
		_, err := s.store.VehicleCases().GetByID(ctx, entityID)
		return mapStoreErr(err, "vehicle case")
	case domain.EntityKindBatteryCase:
		_, err := s.store.BatteryCases().GetByID(ctx, entityID)
		return mapStoreErr(err, "battery case")
	}
	return errorutil.NewValidationError("unknown entity kind", map[string]any{"kind": string(kind)})
}

func (s *LifecycleService) publishTicketMoved(ctx context.Context, ticket *domain.Ticket, old, next domain.TicketStatus, note string, actor domain.Actor) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketStatusMoved,
		TicketID:  ticket.ID,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload: events.TicketStatusMovedPayload{
			TicketNumber: ticket.TicketNumber,
			OldStatus:    old,
			NewStatus:    next,
			Note:         note,
		},
	})
}

func (s *LifecycleService) publishCaseMoved(ctx context.Context, ticketID string, caseType domain.CaseType, caseID string, old, next domain.CaseStatus, note string, actor domain.Actor) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventCaseStatusMoved,
		TicketID:  ticketID,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload: events.CaseStatusMovedPayload{
			CaseType:  caseType,
			CaseID:    caseID,
			OldStatus: old,
			NewStatus: next,
			Note:      note,
		},
	})
}

func caseKind(caseType domain.CaseType) (domain.EntityKind, error) {
	switch caseType {
	case domain.CaseTypeVehicle:
		return domain.EntityKindVehicleCase, nil
	case domain.CaseTypeBattery:
		return domain.EntityKindBatteryCase, nil
	}
	return "", errorutil.NewValidationError("unknown case type", map[string]any{"case_type": string(caseType)})
}
