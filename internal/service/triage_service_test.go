package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e-wheels/workshop-service/internal/domain"
	"github.com/e-wheels/workshop-service/internal/events"
	"github.com/e-wheels/workshop-service/pkg/errorutil"
)

var testActor = domain.Actor{ID: "tech-1"}

func seedTicket(t *testing.T, store *memStore, status domain.TicketStatus) *domain.Ticket {
	t.Helper()
	vehicleMake := "Trek"
	ticket := &domain.Ticket{
		TicketNumber: "T-20260829-001",
		CustomerID:   "cust-1",
		Symptom:      "motor cuts out under load",
		VehicleMake:  &vehicleMake,
		Status:       status,
		CreatedBy:    testActor.ID,
		UpdatedBy:    testActor.ID,
	}
	require.NoError(t, store.Tickets().Create(context.Background(), ticket))
	return ticket
}

func TestTriageRouteVehicle(t *testing.T) {
	store := newMemStore()
	dispatcher := &recordingDispatcher{}
	svc := NewTriageService(store, dispatcher)
	ticket := seedTicket(t, store, domain.TicketStatusReported)

	result, err := svc.Triage(context.Background(), ticket.ID, RouteVehicle, "front wheel wobble", testActor)
	require.NoError(t, err)
	require.NotNil(t, result.VehicleCase)
	assert.Nil(t, result.BatteryCase)

	assert.Equal(t, domain.TicketStatusTriaged, result.Ticket.Status)
	require.NotNil(t, result.Ticket.VehicleCaseID)
	assert.Equal(t, result.VehicleCase.ID, *result.Ticket.VehicleCaseID)
	assert.Nil(t, result.Ticket.BatteryCaseID)

	assert.Equal(t, domain.CaseStatusReceived, result.VehicleCase.Status)
	assert.Equal(t, ticket.ID, result.VehicleCase.TicketID)
	assert.Equal(t, "Trek", result.VehicleCase.VehicleMake)
	assert.Equal(t, "Unknown", result.VehicleCase.VehicleModel)
	assert.Equal(t, "UNKNOWN", result.VehicleCase.VehicleRegNo)
	require.NotNil(t, result.VehicleCase.InitialDiagnosis)
	assert.Equal(t, "front wheel wobble", *result.VehicleCase.InitialDiagnosis)

	require.NotNil(t, result.Ticket.TriagedAt)
	require.NotNil(t, result.Ticket.TriagedBy)
	assert.Equal(t, testActor.ID, *result.Ticket.TriagedBy)

	// creation history for the case, transition history for the ticket
	caseHistory, err := store.History().ListByEntity(context.Background(), domain.EntityKindVehicleCase, result.VehicleCase.ID)
	require.NoError(t, err)
	require.Len(t, caseHistory, 1)
	assert.Nil(t, caseHistory[0].PreviousStatus)
	assert.Equal(t, string(domain.CaseStatusReceived), caseHistory[0].NewStatus)

	ticketHistory, err := store.History().ListByEntity(context.Background(), domain.EntityKindTicket, ticket.ID)
	require.NoError(t, err)
	require.Len(t, ticketHistory, 1)
	require.NotNil(t, ticketHistory[0].PreviousStatus)
	assert.Equal(t, string(domain.TicketStatusReported), *ticketHistory[0].PreviousStatus)
	assert.Equal(t, string(domain.TicketStatusTriaged), ticketHistory[0].NewStatus)

	require.Len(t, dispatcher.byType(events.EventTicketTriaged), 1)
}

func TestTriageRouteBoth(t *testing.T) {
	store := newMemStore()
	svc := NewTriageService(store, nil)
	ticket := seedTicket(t, store, domain.TicketStatusReported)

	result, err := svc.Triage(context.Background(), ticket.ID, RouteBoth, "full checkup", testActor)
	require.NoError(t, err)
	require.NotNil(t, result.VehicleCase)
	require.NotNil(t, result.BatteryCase)

	assert.Equal(t, "BATT-"+ticket.TicketNumber, result.BatteryCase.SerialNumber)
	assert.Equal(t, "Unknown", result.BatteryCase.Brand)
	assert.Equal(t, domain.BatteryTypeOther, result.BatteryCase.BatteryType)
	require.NotNil(t, result.Ticket.VehicleCaseID)
	require.NotNil(t, result.Ticket.BatteryCaseID)

	connected, err := store.Tickets().ListConnected(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Len(t, connected, 1)
}

func TestTriageSecondRouteSameTypeRejected(t *testing.T) {
	store := newMemStore()
	svc := NewTriageService(store, nil)
	ticket := seedTicket(t, store, domain.TicketStatusReported)

	_, err := svc.Triage(context.Background(), ticket.ID, RouteVehicle, "", testActor)
	require.NoError(t, err)

	_, err = svc.Triage(context.Background(), ticket.ID, RouteVehicle, "", testActor)
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, errorutil.CodeAlreadyLinked))
}

func TestTriageOtherTypeAfterFirstSucceeds(t *testing.T) {
	store := newMemStore()
	svc := NewTriageService(store, nil)
	ticket := seedTicket(t, store, domain.TicketStatusReported)

	first, err := svc.Triage(context.Background(), ticket.ID, RouteVehicle, "", testActor)
	require.NoError(t, err)

	second, err := svc.Triage(context.Background(), ticket.ID, RouteBattery, "", testActor)
	require.NoError(t, err)
	require.NotNil(t, second.BatteryCase)

	// first linkage untouched, ticket stays triaged
	require.NotNil(t, second.Ticket.VehicleCaseID)
	assert.Equal(t, first.VehicleCase.ID, *second.Ticket.VehicleCaseID)
	assert.Equal(t, domain.TicketStatusTriaged, second.Ticket.Status)

	// only one reported->triaged entry in total
	history, err := store.History().ListByEntity(context.Background(), domain.EntityKindTicket, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestTriageBothWithOneSlotTakenWritesNothing(t *testing.T) {
	store := newMemStore()
	svc := NewTriageService(store, nil)
	ticket := seedTicket(t, store, domain.TicketStatusReported)

	_, err := svc.Triage(context.Background(), ticket.ID, RouteBattery, "", testActor)
	require.NoError(t, err)

	_, err = svc.Triage(context.Background(), ticket.ID, RouteBoth, "", testActor)
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, errorutil.CodeAlreadyLinked))

	// the vehicle slot must still be empty: no partial case creation
	reread, err := store.Tickets().GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, reread.VehicleCaseID)
	assert.Empty(t, store.vehicleCases)
}

func TestTriageTerminalTicketRejected(t *testing.T) {
	store := newMemStore()
	svc := NewTriageService(store, nil)

	for _, status := range []domain.TicketStatus{domain.TicketStatusClosed, domain.TicketStatusCancelled} {
		ticket := seedTicket(t, store, status)
		_, err := svc.Triage(context.Background(), ticket.ID, RouteVehicle, "", testActor)
		require.Error(t, err)
		assert.True(t, errorutil.IsCode(err, errorutil.CodeTicketTerminal), "status %s", status)
	}
}

func TestTriageUnknownRouteRejected(t *testing.T) {
	store := newMemStore()
	svc := NewTriageService(store, nil)
	ticket := seedTicket(t, store, domain.TicketStatusReported)

	_, err := svc.Triage(context.Background(), ticket.ID, RouteTarget("scooter"), "", testActor)
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, errorutil.CodeValidation))
}

func TestTriageMissingTicket(t *testing.T) {
	store := newMemStore()
	svc := NewTriageService(store, nil)

	_, err := svc.Triage(context.Background(), "nope", RouteVehicle, "", testActor)
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, errorutil.CodeNotFound))
}

func TestTriageAppendsNotesAcrossRuns(t *testing.T) {
	store := newMemStore()
	svc := NewTriageService(store, nil)
	ticket := seedTicket(t, store, domain.TicketStatusReported)

	_, err := svc.Triage(context.Background(), ticket.ID, RouteVehicle, "first pass", testActor)
	require.NoError(t, err)
	result, err := svc.Triage(context.Background(), ticket.ID, RouteBattery, "second pass", testActor)
	require.NoError(t, err)

	require.NotNil(t, result.Ticket.TriageNotes)
	assert.Equal(t, "first pass\nsecond pass", *result.Ticket.TriageNotes)
}
