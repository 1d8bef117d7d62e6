package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/e-wheels/workshop-service/internal/domain"
	"github.com/e-wheels/workshop-service/internal/events"
	"github.com/e-wheels/workshop-service/internal/repository"
	"github.com/e-wheels/workshop-service/pkg/errorutil"
)

// NumberGenerator issues human-readable ticket numbers.
type NumberGenerator interface {
	Next(ctx context.Context) string
}

// TicketService handles intake and read paths for service tickets.
type TicketService struct {
	store      repository.Store
	numbers    NumberGenerator
	dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(store repository.Store, numbers NumberGenerator, dispatcher events.Dispatcher) *TicketService {
	return &TicketService{store: store, numbers: numbers, dispatcher: dispatcher}
}

// TicketCreateInput describes intake payload.
type TicketCreateInput struct {
	CustomerID   string
	Symptom      string
	Description  *string
	VehicleMake  *string
	VehicleModel *string
	VehicleRegNo *string
	VehicleYear  *int
}

// Create registers a new ticket in status reported and writes its creation
// history entry in the same transaction.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput, actor domain.Actor) (*domain.Ticket, error) {
	if strings.TrimSpace(input.CustomerID) == "" || strings.TrimSpace(input.Symptom) == "" {
		return nil, errorutil.NewValidationError("customer_id and symptom are required", nil)
	}

	ticket := &domain.Ticket{
		TicketNumber: s.numbers.Next(ctx),
		CustomerID:   input.CustomerID,
		Symptom:      strings.TrimSpace(input.Symptom),
		Description:  input.Description,
		VehicleMake:  input.VehicleMake,
		VehicleModel: input.VehicleModel,
		VehicleRegNo: input.VehicleRegNo,
		VehicleYear:  input.VehicleYear,
		Status:       domain.TicketStatusReported,
		LocationID:   actor.LocationID,
		CreatedBy:    actor.ID,
		UpdatedBy:    actor.ID,
	}

	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		if err := tx.Tickets().Create(ctx, ticket); err != nil {
			return mapStoreErr(err, "ticket")
		}
		entry := &domain.StatusHistoryEntry{
			EntityID:   ticket.ID,
			EntityKind: domain.EntityKindTicket,
			NewStatus:  string(domain.TicketStatusReported),
			ChangedBy:  actor.ID,
		}
		if err := tx.History().Append(ctx, entry); err != nil {
			return mapStoreErr(err, "ticket history")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventTicketCreated,
			TicketID:  ticket.ID,
			Actor:     actor,
			Timestamp: time.Now(),
			Payload: events.TicketCreatedPayload{
				TicketNumber: ticket.TicketNumber,
				CustomerID:   ticket.CustomerID,
				Symptom:      ticket.Symptom,
				VehicleRegNo: ticket.VehicleRegNo,
			},
		})
	}
	return ticket, nil
}

// GetByID fetches one ticket.
func (s *TicketService) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.store.Tickets().GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "ticket")
	}
	return ticket, nil
}

// GetByNumber fetches one ticket by its human-readable number.
func (s *TicketService) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	ticket, err := s.store.Tickets().GetByNumber(ctx, number)
	if err != nil {
		return nil, mapStoreErr(err, "ticket")
	}
	return ticket, nil
}

// List returns tickets matching the filter, most recently updated first.
func (s *TicketService) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.store.Tickets().List(ctx, filter)
	if err != nil {
		return nil, mapStoreErr(err, "ticket")
	}
	return tickets, nil
}

// ListConnected returns tickets linked to both a vehicle and a battery case.
func (s *TicketService) ListConnected(ctx context.Context, limit, offset int) ([]domain.Ticket, error) {
	tickets, err := s.store.Tickets().ListConnected(ctx, limit, offset)
	if err != nil {
		return nil, mapStoreErr(err, "ticket")
	}
	return tickets, nil
}

// FindByCase resolves the owning ticket of a case.
func (s *TicketService) FindByCase(ctx context.Context, caseType domain.CaseType, caseID string) (*domain.Ticket, error) {
	if _, err := caseKind(caseType); err != nil {
		return nil, err
	}
	ticket, err := s.store.Tickets().FindByCaseID(ctx, caseType, caseID)
	if err != nil {
		return nil, mapStoreErr(err, "ticket")
	}
	return ticket, nil
}

// GetVehicleCase fetches one vehicle case.
func (s *TicketService) GetVehicleCase(ctx context.Context, id string) (*domain.VehicleCase, error) {
	vc, err := s.store.VehicleCases().GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "vehicle case")
	}
	return vc, nil
}

// GetBatteryCase fetches one battery case.
func (s *TicketService) GetBatteryCase(ctx context.Context, id string) (*domain.BatteryCase, error) {
	bc, err := s.store.BatteryCases().GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "battery case")
	}
	return bc, nil
}
