package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/e-wheels/workshop-service/internal/domain"
	"github.com/e-wheels/workshop-service/internal/events"
	"github.com/e-wheels/workshop-service/internal/repository"
	"github.com/e-wheels/workshop-service/pkg/errorutil"
)

func TestCreateTicketIntake(t *testing.T) {
	store := newMemStore()
	dispatcher := &recordingDispatcher{}
	svc := NewTicketService(store, &fixedNumbers{}, dispatcher)
	ctx := context.Background()

	desc := "rattling noise from rear hub"
	ticket, err := svc.Create(ctx, TicketCreateInput{
		CustomerID:  "cust-1",
		Symptom:     "  rear wheel noise  ",
		Description: &desc,
	}, testActor)
	require.NoError(t, err)

	assert.Equal(t, "T-20260829-001", ticket.TicketNumber)
	assert.Equal(t, domain.TicketStatusReported, ticket.Status)
	assert.Equal(t, "rear wheel noise", ticket.Symptom)
	assert.Nil(t, ticket.VehicleCaseID)
	assert.Nil(t, ticket.BatteryCaseID)

	history, err := store.History().ListByEntity(ctx, domain.EntityKindTicket, ticket.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].PreviousStatus)
	assert.Equal(t, string(domain.TicketStatusReported), history[0].NewStatus)

	require.Len(t, dispatcher.byType(events.EventTicketCreated), 1)
}

func TestCreateTicketValidation(t *testing.T) {
	svc := NewTicketService(newMemStore(), &fixedNumbers{}, nil)

	_, err := svc.Create(context.Background(), TicketCreateInput{CustomerID: "cust-1"}, testActor)
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, errorutil.CodeValidation))

	_, err = svc.Create(context.Background(), TicketCreateInput{Symptom: "squeak"}, testActor)
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, errorutil.CodeValidation))
}

func TestGetByNumber(t *testing.T) {
	store := newMemStore()
	svc := NewTicketService(store, &fixedNumbers{}, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, TicketCreateInput{CustomerID: "cust-1", Symptom: "dead display"}, testActor)
	require.NoError(t, err)

	found, err := svc.GetByNumber(ctx, created.TicketNumber)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetByNumber(ctx, "T-19700101-001")
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, errorutil.CodeNotFound))
}

func TestFindByCaseReverseLookup(t *testing.T) {
	store := newMemStore()
	svc := NewTicketService(store, &fixedNumbers{}, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, TicketCreateInput{CustomerID: "cust-1", Symptom: "no assist"}, testActor)
	require.NoError(t, err)
	fix, err := NewTriageService(store, nil).Triage(ctx, created.ID, RouteBattery, "", testActor)
	require.NoError(t, err)

	owner, err := svc.FindByCase(ctx, domain.CaseTypeBattery, fix.BatteryCase.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, owner.ID)

	_, err = svc.FindByCase(ctx, domain.CaseTypeVehicle, fix.BatteryCase.ID)
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, errorutil.CodeNotFound))

	_, err = svc.FindByCase(ctx, domain.CaseType("scooter"), fix.BatteryCase.ID)
	require.Error(t, err)
	assert.True(t, errorutil.IsCode(err, errorutil.CodeValidation))
}

func TestListFiltersByStatus(t *testing.T) {
	store := newMemStore()
	svc := NewTicketService(store, &fixedNumbers{}, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, TicketCreateInput{CustomerID: "cust-1", Symptom: "a"}, testActor)
	require.NoError(t, err)
	_, err = svc.Create(ctx, TicketCreateInput{CustomerID: "cust-2", Symptom: "b"}, testActor)
	require.NoError(t, err)
	_, err = NewTriageService(store, nil).Triage(ctx, first.ID, RouteVehicle, "", testActor)
	require.NoError(t, err)

	reported, err := svc.List(ctx, repository.TicketFilter{Statuses: []domain.TicketStatus{domain.TicketStatusReported}})
	require.NoError(t, err)
	require.Len(t, reported, 1)
	assert.Equal(t, "cust-2", reported[0].CustomerID)
}
