package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/e-wheels/workshop-service/internal/domain"
	"github.com/e-wheels/workshop-service/internal/events"
	"github.com/e-wheels/workshop-service/internal/repository"
)

// memStore is an in-memory repository.Store with real transaction
// semantics: Atomic snapshots all state and restores it when fn fails, so
// partial-write assertions behave like they would against the database.
type memStore struct {
	mu           sync.Mutex
	tickets      map[string]domain.Ticket
	vehicleCases map[string]domain.VehicleCase
	batteryCases map[string]domain.BatteryCase
	history      []domain.StatusHistoryEntry
	attachments  map[string]domain.Attachment
	technicians  map[string]domain.Technician
	seq          int
}

func newMemStore() *memStore {
	return &memStore{
		tickets:      make(map[string]domain.Ticket),
		vehicleCases: make(map[string]domain.VehicleCase),
		batteryCases: make(map[string]domain.BatteryCase),
		attachments:  make(map[string]domain.Attachment),
		technicians:  make(map[string]domain.Technician),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) Tickets() repository.TicketRepository           { return &memTickets{m} }
func (m *memStore) VehicleCases() repository.VehicleCaseRepository { return &memVehicleCases{m} }
func (m *memStore) BatteryCases() repository.BatteryCaseRepository { return &memBatteryCases{m} }
func (m *memStore) History() repository.HistoryRepository          { return &memHistory{m} }
func (m *memStore) Attachments() repository.AttachmentRepository   { return &memAttachments{m} }
func (m *memStore) Technicians() repository.TechnicianRepository   { return &memTechnicians{m} }

func (m *memStore) Atomic(ctx context.Context, fn func(repository.Store) error) error {
	m.mu.Lock()
	snapTickets := copyMap(m.tickets)
	snapVehicle := copyMap(m.vehicleCases)
	snapBattery := copyMap(m.batteryCases)
	snapHistory := append([]domain.StatusHistoryEntry(nil), m.history...)
	snapAttachments := copyMap(m.attachments)
	snapTechnicians := copyMap(m.technicians)
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.tickets = snapTickets
		m.vehicleCases = snapVehicle
		m.batteryCases = snapBattery
		m.history = snapHistory
		m.attachments = snapAttachments
		m.technicians = snapTechnicians
		m.mu.Unlock()
		return err
	}
	return nil
}

func copyMap[V any](src map[string]V) map[string]V {
	dst := make(map[string]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

type memTickets struct{ s *memStore }

func (r *memTickets) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if ticket.ID == "" {
		ticket.ID = r.s.nextID("tk")
	}
	now := time.Now()
	ticket.CreatedAt = now
	ticket.UpdatedAt = now
	r.s.tickets[ticket.ID] = *ticket
	return nil
}

func (r *memTickets) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ticket, nil
}

func (r *memTickets) GetByNumber(_ context.Context, number string) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ticket := range r.s.tickets {
		if ticket.TicketNumber == number {
			return &ticket, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memTickets) FindByCaseID(_ context.Context, caseType domain.CaseType, caseID string) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, ticket := range r.s.tickets {
		linked := ticket.CaseID(caseType)
		if linked != nil && *linked == caseID {
			return &ticket, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memTickets) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range r.s.tickets {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		if filter.CustomerID != nil && ticket.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.SearchTerm != nil && !strings.Contains(ticket.Symptom, *filter.SearchTerm) {
			continue
		}
		out = append(out, ticket)
	}
	return out, nil
}

func (r *memTickets) ListConnected(_ context.Context, limit, offset int) ([]domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Ticket
	for _, ticket := range r.s.tickets {
		if ticket.VehicleCaseID != nil && ticket.BatteryCaseID != nil {
			out = append(out, ticket)
		}
	}
	return out, nil
}

func (r *memTickets) LinkCase(_ context.Context, ticketID string, caseType domain.CaseType, caseID, actorID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket, ok := r.s.tickets[ticketID]
	if !ok {
		return false, pgx.ErrNoRows
	}
	if ticket.CaseID(caseType) != nil {
		return false, nil
	}
	switch caseType {
	case domain.CaseTypeVehicle:
		ticket.VehicleCaseID = &caseID
	case domain.CaseTypeBattery:
		ticket.BatteryCaseID = &caseID
	}
	ticket.UpdatedBy = actorID
	ticket.UpdatedAt = time.Now()
	r.s.tickets[ticketID] = ticket
	return true, nil
}

func (r *memTickets) AppendTriageNote(_ context.Context, ticketID, note, actorID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket, ok := r.s.tickets[ticketID]
	if !ok {
		return pgx.ErrNoRows
	}
	if note != "" {
		if ticket.TriageNotes != nil {
			combined := *ticket.TriageNotes + "\n" + note
			ticket.TriageNotes = &combined
		} else {
			ticket.TriageNotes = &note
		}
	}
	now := time.Now()
	ticket.TriagedAt = &now
	ticket.TriagedBy = &actorID
	ticket.UpdatedBy = actorID
	r.s.tickets[ticketID] = ticket
	return nil
}

func (r *memTickets) AdvanceToTriaged(_ context.Context, ticketID, actorID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket, ok := r.s.tickets[ticketID]
	if !ok {
		return false, pgx.ErrNoRows
	}
	if ticket.Status != domain.TicketStatusReported {
		return false, nil
	}
	ticket.Status = domain.TicketStatusTriaged
	ticket.UpdatedBy = actorID
	ticket.UpdatedAt = time.Now()
	r.s.tickets[ticketID] = ticket
	return true, nil
}

func (r *memTickets) UpdateStatus(_ context.Context, ticketID string, observed, next domain.TicketStatus, closedAt *time.Time, actorID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket, ok := r.s.tickets[ticketID]
	if !ok {
		return false, pgx.ErrNoRows
	}
	if ticket.Status != observed {
		return false, nil
	}
	ticket.Status = next
	if closedAt != nil {
		ticket.ClosedAt = closedAt
	}
	ticket.UpdatedBy = actorID
	ticket.UpdatedAt = time.Now()
	r.s.tickets[ticketID] = ticket
	return true, nil
}

func containsStatus(list []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range list {
		if s == status {
			return true
		}
	}
	return false
}

type memVehicleCases struct{ s *memStore }

func (r *memVehicleCases) Create(_ context.Context, vc *domain.VehicleCase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if vc.ID == "" {
		vc.ID = r.s.nextID("vc")
	}
	now := time.Now()
	vc.ReceivedAt = now
	vc.CreatedAt = now
	vc.UpdatedAt = now
	r.s.vehicleCases[vc.ID] = *vc
	return nil
}

func (r *memVehicleCases) GetByID(_ context.Context, id string) (*domain.VehicleCase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	vc, ok := r.s.vehicleCases[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &vc, nil
}

func (r *memVehicleCases) UpdateStatus(_ context.Context, id string, observed, next domain.CaseStatus, deliveredAt *time.Time, actorID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	vc, ok := r.s.vehicleCases[id]
	if !ok {
		return false, pgx.ErrNoRows
	}
	if vc.Status != observed {
		return false, nil
	}
	vc.Status = next
	if deliveredAt != nil {
		vc.DeliveredAt = deliveredAt
	}
	vc.UpdatedBy = actorID
	vc.UpdatedAt = time.Now()
	r.s.vehicleCases[id] = vc
	return true, nil
}

func (r *memVehicleCases) AssignTechnician(_ context.Context, id, technicianID, actorID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	vc, ok := r.s.vehicleCases[id]
	if !ok {
		return pgx.ErrNoRows
	}
	vc.AssignedTechnician = &technicianID
	vc.UpdatedBy = actorID
	r.s.vehicleCases[id] = vc
	return nil
}

func (r *memVehicleCases) UpdateNotes(_ context.Context, id string, diagnostic, repair, technician *string, actorID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	vc, ok := r.s.vehicleCases[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if diagnostic != nil {
		vc.DiagnosticNotes = diagnostic
	}
	if repair != nil {
		vc.RepairNotes = repair
	}
	if technician != nil {
		vc.TechnicianNotes = technician
	}
	vc.UpdatedBy = actorID
	r.s.vehicleCases[id] = vc
	return nil
}

type memBatteryCases struct{ s *memStore }

func (r *memBatteryCases) Create(_ context.Context, bc *domain.BatteryCase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if bc.ID == "" {
		bc.ID = r.s.nextID("bc")
	}
	now := time.Now()
	bc.ReceivedAt = now
	bc.CreatedAt = now
	bc.UpdatedAt = now
	r.s.batteryCases[bc.ID] = *bc
	return nil
}

func (r *memBatteryCases) GetByID(_ context.Context, id string) (*domain.BatteryCase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	bc, ok := r.s.batteryCases[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &bc, nil
}

func (r *memBatteryCases) UpdateStatus(_ context.Context, id string, observed, next domain.CaseStatus, deliveredAt *time.Time, actorID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	bc, ok := r.s.batteryCases[id]
	if !ok {
		return false, pgx.ErrNoRows
	}
	if bc.Status != observed {
		return false, nil
	}
	bc.Status = next
	if deliveredAt != nil {
		bc.DeliveredAt = deliveredAt
	}
	bc.UpdatedBy = actorID
	bc.UpdatedAt = time.Now()
	r.s.batteryCases[id] = bc
	return true, nil
}

func (r *memBatteryCases) AssignTechnician(_ context.Context, id, technicianID, actorID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	bc, ok := r.s.batteryCases[id]
	if !ok {
		return pgx.ErrNoRows
	}
	bc.AssignedTechnician = &technicianID
	bc.UpdatedBy = actorID
	r.s.batteryCases[id] = bc
	return nil
}

func (r *memBatteryCases) UpdateNotes(_ context.Context, id string, repair, technician *string, actorID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	bc, ok := r.s.batteryCases[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if repair != nil {
		bc.RepairNotes = repair
	}
	if technician != nil {
		bc.TechnicianNotes = technician
	}
	bc.UpdatedBy = actorID
	r.s.batteryCases[id] = bc
	return nil
}

type memHistory struct{ s *memStore }

func (r *memHistory) Append(_ context.Context, entry *domain.StatusHistoryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = r.s.nextID("h")
	}
	entry.ChangedAt = time.Now()
	r.s.history = append(r.s.history, *entry)
	return nil
}

func (r *memHistory) ListByEntity(_ context.Context, kind domain.EntityKind, entityID string) ([]domain.StatusHistoryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.StatusHistoryEntry
	for _, entry := range r.s.history {
		if entry.EntityKind == kind && entry.EntityID == entityID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (r *memHistory) Latest(ctx context.Context, kind domain.EntityKind, entityID string) (*domain.StatusHistoryEntry, error) {
	entries, err := r.ListByEntity(ctx, kind, entityID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &entries[len(entries)-1], nil
}

type memAttachments struct{ s *memStore }

func (r *memAttachments) Create(_ context.Context, attachment *domain.Attachment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if attachment.ID == "" {
		attachment.ID = r.s.nextID("att")
	}
	attachment.UploadedAt = time.Now()
	r.s.attachments[attachment.ID] = *attachment
	return nil
}

func (r *memAttachments) GetByID(_ context.Context, id string) (*domain.Attachment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	attachment, ok := r.s.attachments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &attachment, nil
}

func (r *memAttachments) ListByTicket(_ context.Context, ticketID string) ([]domain.Attachment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Attachment
	for _, attachment := range r.s.attachments {
		if attachment.TicketID == ticketID {
			out = append(out, attachment)
		}
	}
	return out, nil
}

func (r *memAttachments) ListByCase(_ context.Context, caseType domain.CaseType, caseID string) ([]domain.Attachment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Attachment
	for _, attachment := range r.s.attachments {
		if attachment.CaseType != nil && *attachment.CaseType == caseType &&
			attachment.CaseID != nil && *attachment.CaseID == caseID {
			out = append(out, attachment)
		}
	}
	return out, nil
}

func (r *memAttachments) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.attachments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.s.attachments, id)
	return nil
}

type memTechnicians struct{ s *memStore }

func (r *memTechnicians) GetByID(_ context.Context, id string) (*domain.Technician, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tech, ok := r.s.technicians[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &tech, nil
}

func (r *memTechnicians) GetByEmail(_ context.Context, email string) (*domain.Technician, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, tech := range r.s.technicians {
		if strings.EqualFold(tech.Email, email) {
			return &tech, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memTechnicians) Create(_ context.Context, technician *domain.Technician) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if technician.ID == "" {
		technician.ID = r.s.nextID("tech")
	}
	r.s.technicians[technician.ID] = *technician
	return nil
}

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

// fixedNumbers is a deterministic ticket number source.
type fixedNumbers struct {
	n int
}

func (f *fixedNumbers) Next(context.Context) string {
	f.n++
	return fmt.Sprintf("T-20260829-%03d", f.n)
}
