package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/e-wheels/workshop-service/internal/api/dto"
	"github.com/e-wheels/workshop-service/internal/auth"
	"github.com/e-wheels/workshop-service/internal/domain"
	"github.com/e-wheels/workshop-service/internal/repository"
	"github.com/e-wheels/workshop-service/internal/service"
	"github.com/e-wheels/workshop-service/pkg/errorutil"
)

// TicketsHandler manages ticket intake, triage and lifecycle endpoints.
type TicketsHandler struct {
	tickets   *service.TicketService
	triage    *service.TriageService
	lifecycle *service.LifecycleService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(tickets *service.TicketService, triage *service.TriageService, lifecycle *service.LifecycleService) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, triage: triage, lifecycle: lifecycle}
}

// Create POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("authentication required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.Create(c.UserContext(), service.TicketCreateInput{
		CustomerID:   req.CustomerID,
		Symptom:      req.Symptom,
		Description:  req.Description,
		VehicleMake:  req.VehicleMake,
		VehicleModel: req.VehicleModel,
		VehicleRegNo: req.VehicleRegNo,
		VehicleYear:  req.VehicleYear,
	}, principal.Actor())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	filter := parseTicketFilter(c)
	tickets, err := h.tickets.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListConnected GET /tickets/connected.
func (h *TicketsHandler) ListConnected(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	tickets, err := h.tickets.ListConnected(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /tickets/:id. A ticket number (T-prefixed) is accepted in place of
// the id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	ref := c.Params("id")
	var (
		ticket *domain.Ticket
		err    error
	)
	if strings.HasPrefix(ref, "T-") {
		ticket, err = h.tickets.GetByNumber(c.UserContext(), ref)
	} else {
		ticket, err = h.tickets.GetByID(c.UserContext(), ref)
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// Triage POST /tickets/:id/triage.
func (h *TicketsHandler) Triage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("authentication required")
	}
	var req dto.TriageRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}

	result, err := h.triage.Triage(c.UserContext(), c.Params("id"), service.RouteTarget(req.RouteTo), req.Note, principal.Actor())
	if err != nil {
		return err
	}

	resp := dto.TriageResponse{Ticket: ticketResponse(result.Ticket)}
	if result.VehicleCase != nil {
		vc := vehicleCaseResponse(result.VehicleCase)
		resp.VehicleCase = &vc
	}
	if result.BatteryCase != nil {
		bc := batteryCaseResponse(result.BatteryCase)
		resp.BatteryCase = &bc
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": resp})
}

// ChangeStatus POST /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("authentication required")
	}
	var req dto.StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.lifecycle.ChangeTicketStatus(c.UserContext(), c.Params("id"), domain.TicketStatus(req.Status), req.Note, principal.Actor())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// History GET /tickets/:id/history.
func (h *TicketsHandler) History(c *fiber.Ctx) error {
	entries, err := h.lifecycle.ListHistory(c.UserContext(), domain.EntityKindTicket, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, historyEntryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// FindByCase GET /cases/:type/:id/ticket.
func (h *TicketsHandler) FindByCase(c *fiber.Ctx) error {
	ticket, err := h.tickets.FindByCase(c.UserContext(), domain.CaseType(c.Params("type")), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

func parseTicketFilter(c *fiber.Ctx) repository.TicketFilter {
	filter := repository.TicketFilter{
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			filter.Statuses = append(filter.Statuses, domain.TicketStatus(strings.TrimSpace(s)))
		}
	}
	if v := c.Query("customer_id"); v != "" {
		filter.CustomerID = &v
	}
	if v := c.Query("location_id"); v != "" {
		filter.LocationID = &v
	}
	if v := c.Query("q"); v != "" {
		filter.SearchTerm = &v
	}
	if v := c.Query("created_from"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			filter.CreatedFrom = &ts
		}
	}
	if v := c.Query("created_to"); v != "" {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			filter.CreatedTo = &ts
		}
	}
	return filter
}
