package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/e-wheels/workshop-service/internal/domain"
	"github.com/e-wheels/workshop-service/internal/events"
	"github.com/e-wheels/workshop-service/internal/repository"
	"github.com/e-wheels/workshop-service/pkg/errorutil"
)

// RouteTarget names the case type(s) a triage run should spawn.
type RouteTarget string

const (
	RouteVehicle RouteTarget = "vehicle"
	RouteBattery RouteTarget = "battery"
	RouteBoth    RouteTarget = "both"
)

// TriageResult reports what a successful triage produced.
type TriageResult struct {
	Ticket      *domain.Ticket
	VehicleCase *domain.VehicleCase
	BatteryCase *domain.BatteryCase
}

// TriageService splits an intake ticket into specialized repair cases. Case
// linkage is write-once: requesting a route whose slot is already filled
// fails with AlreadyLinked and performs no writes.
type TriageService struct {
	store      repository.Store
	dispatcher events.Dispatcher
}

// NewTriageService constructs the service.
func NewTriageService(store repository.Store, dispatcher events.Dispatcher) *TriageService {
	return &TriageService{store: store, dispatcher: dispatcher}
}

// Triage routes a ticket into the requested case type(s). The whole run is
// one transaction: case creation, linkage, creation history, triage note and
// ticket status all commit together or not at all.
func (s *TriageService) Triage(ctx context.Context, ticketID string, routeTo RouteTarget, note string, actor domain.Actor) (*TriageResult, error) {
	wantVehicle := routeTo == RouteVehicle || routeTo == RouteBoth
	wantBattery := routeTo == RouteBattery || routeTo == RouteBoth
	if !wantVehicle && !wantBattery {
		return nil, errorutil.NewValidationError("route_to must be vehicle, battery or both", map[string]any{"route_to": string(routeTo)})
	}

	var result TriageResult
	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		ticket, err := tx.Tickets().GetByID(ctx, ticketID)
		if err != nil {
			return mapStoreErr(err, "ticket")
		}
		if ticket.IsTerminal() {
			return errorutil.NewTicketTerminal(string(ticket.Status))
		}
		// Reject before any write so a double-route leaves zero new rows.
		if wantVehicle && ticket.VehicleCaseID != nil {
			return errorutil.NewAlreadyLinked(string(domain.CaseTypeVehicle))
		}
		if wantBattery && ticket.BatteryCaseID != nil {
			return errorutil.NewAlreadyLinked(string(domain.CaseTypeBattery))
		}

		if wantVehicle {
			vc, err := s.createVehicleCase(ctx, tx, ticket, note, actor)
			if err != nil {
				return err
			}
			result.VehicleCase = vc
		}
		if wantBattery {
			bc, err := s.createBatteryCase(ctx, tx, ticket, note, actor)
			if err != nil {
				return err
			}
			result.BatteryCase = bc
		}

		if err := tx.Tickets().AppendTriageNote(ctx, ticket.ID, note, actor.ID); err != nil {
			return mapStoreErr(err, "ticket")
		}

		advanced, err := tx.Tickets().AdvanceToTriaged(ctx, ticket.ID, actor.ID)
		if err != nil {
			return mapStoreErr(err, "ticket")
		}
		if advanced {
			prev := string(domain.TicketStatusReported)
			entry := &domain.StatusHistoryEntry{
				EntityID:       ticket.ID,
				EntityKind:     domain.EntityKindTicket,
				PreviousStatus: &prev,
				NewStatus:      string(domain.TicketStatusTriaged),
				Note:           optionalNote(note),
				ChangedBy:      actor.ID,
			}
			if err := tx.History().Append(ctx, entry); err != nil {
				return mapStoreErr(err, "ticket history")
			}
		}

		updated, err := tx.Tickets().GetByID(ctx, ticket.ID)
		if err != nil {
			return mapStoreErr(err, "ticket")
		}
		result.Ticket = updated
		return nil
	})
	if err != nil {
		return nil, mapStoreErr(err, "ticket")
	}

	s.publishTriaged(ctx, &result, routeTo, note, actor)
	return &result, nil
}

func (s *TriageService) createVehicleCase(ctx context.Context, tx repository.Store, ticket *domain.Ticket, note string, actor domain.Actor) (*domain.VehicleCase, error) {
	vc := &domain.VehicleCase{
		TicketID:         ticket.ID,
		CustomerID:       ticket.CustomerID,
		VehicleMake:      stringOr(ticket.VehicleMake, "Unknown"),
		VehicleModel:     stringOr(ticket.VehicleModel, "Unknown"),
		VehicleRegNo:     stringOr(ticket.VehicleRegNo, "UNKNOWN"),
		VehicleYear:      ticket.VehicleYear,
		Status:           domain.CaseStatusReceived,
		InitialDiagnosis: optionalNote(note),
		LocationID:       actor.LocationID,
		CreatedBy:        actor.ID,
		UpdatedBy:        actor.ID,
	}
	if err := tx.VehicleCases().Create(ctx, vc); err != nil {
		return nil, mapStoreErr(err, "vehicle case")
	}

	linked, err := tx.Tickets().LinkCase(ctx, ticket.ID, domain.CaseTypeVehicle, vc.ID, actor.ID)
	if err != nil {
		return nil, mapStoreErr(err, "ticket")
	}
	if !linked {
		// Lost a concurrent triage race; rolling back discards the case row.
		return nil, errorutil.NewAlreadyLinked(string(domain.CaseTypeVehicle))
	}

	if err := s.appendCaseCreation(ctx, tx, domain.EntityKindVehicleCase, vc.ID, note, actor); err != nil {
		return nil, err
	}
	return vc, nil
}

func (s *TriageService) createBatteryCase(ctx context.Context, tx repository.Store, ticket *domain.Ticket, note string, actor domain.Actor) (*domain.BatteryCase, error) {
	repairNote := note
	if repairNote == "" {
		repairNote = "Created from ticket triage"
	}
	bc := &domain.BatteryCase{
		TicketID:     ticket.ID,
		CustomerID:   ticket.CustomerID,
		SerialNumber: "BATT-" + ticket.TicketNumber,
		Brand:        "Unknown",
		BatteryType:  domain.BatteryTypeOther,
		Status:       domain.CaseStatusReceived,
		RepairNotes:  &repairNote,
		LocationID:   actor.LocationID,
		CreatedBy:    actor.ID,
		UpdatedBy:    actor.ID,
	}
	if err := tx.BatteryCases().Create(ctx, bc); err != nil {
		return nil, mapStoreErr(err, "battery case")
	}

	linked, err := tx.Tickets().LinkCase(ctx, ticket.ID, domain.CaseTypeBattery, bc.ID, actor.ID)
	if err != nil {
		return nil, mapStoreErr(err, "ticket")
	}
	if !linked {
		return nil, errorutil.NewAlreadyLinked(string(domain.CaseTypeBattery))
	}

	if err := s.appendCaseCreation(ctx, tx, domain.EntityKindBatteryCase, bc.ID, note, actor); err != nil {
		return nil, err
	}
	return bc, nil
}

func (s *TriageService) appendCaseCreation(ctx context.Context, tx repository.Store, kind domain.EntityKind, caseID, note string, actor domain.Actor) error {
	entry := &domain.StatusHistoryEntry{
		EntityID:   caseID,
		EntityKind: kind,
		NewStatus:  string(domain.CaseStatusReceived),
		Note:       optionalNote(note),
		ChangedBy:  actor.ID,
	}
	if err := tx.History().Append(ctx, entry); err != nil {
		return mapStoreErr(err, "case history")
	}
	return nil
}

func (s *TriageService) publishTriaged(ctx context.Context, result *TriageResult, routeTo RouteTarget, note string, actor domain.Actor) {
	if s.dispatcher == nil || result.Ticket == nil {
		return
	}
	payload := events.TicketTriagedPayload{
		TicketNumber: result.Ticket.TicketNumber,
		RouteTo:      string(routeTo),
		Note:         note,
	}
	if result.VehicleCase != nil {
		payload.VehicleCaseID = &result.VehicleCase.ID
	}
	if result.BatteryCase != nil {
		payload.BatteryCaseID = &result.BatteryCase.ID
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketTriaged,
		TicketID:  result.Ticket.ID,
		Actor:     actor,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func stringOr(value *string, fallback string) string {
	if value != nil && *value != "" {
		return *value
	}
	return fallback
}

func optionalNote(note string) *string {
	if note == "" {
		return nil
	}
	return &note
}
