package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/e-wheels/workshop-service/internal/api/dto"
	"github.com/e-wheels/workshop-service/internal/auth"
	"github.com/e-wheels/workshop-service/internal/domain"
	"github.com/e-wheels/workshop-service/internal/service"
	"github.com/e-wheels/workshop-service/pkg/errorutil"
)

// CasesHandler manages vehicle and battery case endpoints.
type CasesHandler struct {
	tickets   *service.TicketService
	lifecycle *service.LifecycleService
}

// NewCasesHandler constructs handler.
func NewCasesHandler(tickets *service.TicketService, lifecycle *service.LifecycleService) *CasesHandler {
	return &CasesHandler{tickets: tickets, lifecycle: lifecycle}
}

// GetVehicle GET /cases/vehicle/:id.
func (h *CasesHandler) GetVehicle(c *fiber.Ctx) error {
	vc, err := h.tickets.GetVehicleCase(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": vehicleCaseResponse(vc)})
}

// GetBattery GET /cases/battery/:id.
func (h *CasesHandler) GetBattery(c *fiber.Ctx) error {
	bc, err := h.tickets.GetBatteryCase(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": batteryCaseResponse(bc)})
}

// ChangeStatus POST /cases/:type/:id/status.
func (h *CasesHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("authentication required")
	}
	var req dto.StatusChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}

	caseType := domain.CaseType(c.Params("type"))
	caseID := c.Params("id")
	if err := h.lifecycle.ChangeCaseStatus(c.UserContext(), caseType, caseID, domain.CaseStatus(req.Status), req.Note, principal.Actor()); err != nil {
		return err
	}
	return h.respondCase(c, caseType, caseID)
}

// AssignTechnician POST /cases/:type/:id/assign.
func (h *CasesHandler) AssignTechnician(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("authentication required")
	}
	var req dto.AssignTechnicianRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.TechnicianID) == "" {
		return errorutil.NewValidationError("technician_id required", nil)
	}

	caseType := domain.CaseType(c.Params("type"))
	caseID := c.Params("id")
	if err := h.lifecycle.AssignTechnician(c.UserContext(), caseType, caseID, req.TechnicianID, principal.Actor()); err != nil {
		return err
	}
	return h.respondCase(c, caseType, caseID)
}

// UpdateVehicleNotes PATCH /cases/vehicle/:id/notes.
func (h *CasesHandler) UpdateVehicleNotes(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("authentication required")
	}
	var req dto.UpdateVehicleNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}

	caseID := c.Params("id")
	if err := h.lifecycle.UpdateVehicleNotes(c.UserContext(), caseID, req.DiagnosticNotes, req.RepairNotes, req.TechnicianNotes, principal.Actor()); err != nil {
		return err
	}
	return h.respondCase(c, domain.CaseTypeVehicle, caseID)
}

// UpdateBatteryNotes PATCH /cases/battery/:id/notes.
func (h *CasesHandler) UpdateBatteryNotes(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("authentication required")
	}
	var req dto.UpdateBatteryNotesRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}

	caseID := c.Params("id")
	if err := h.lifecycle.UpdateBatteryNotes(c.UserContext(), caseID, req.RepairNotes, req.TechnicianNotes, principal.Actor()); err != nil {
		return err
	}
	return h.respondCase(c, domain.CaseTypeBattery, caseID)
}

// History GET /cases/:type/:id/history.
func (h *CasesHandler) History(c *fiber.Ctx) error {
	var kind domain.EntityKind
	switch domain.CaseType(c.Params("type")) {
	case domain.CaseTypeVehicle:
		kind = domain.EntityKindVehicleCase
	case domain.CaseTypeBattery:
		kind = domain.EntityKindBatteryCase
	default:
		return errorutil.NewValidationError("unknown case type", nil)
	}

	entries, err := h.lifecycle.ListHistory(c.UserContext(), kind, c.Params("id"))
	if err != nil {
		return err
	}
	items := make([]dto.HistoryEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, historyEntryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *CasesHandler) respondCase(c *fiber.Ctx, caseType domain.CaseType, caseID string) error {
	switch caseType {
	case domain.CaseTypeVehicle:
		vc, err := h.tickets.GetVehicleCase(c.UserContext(), caseID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": vehicleCaseResponse(vc)})
	case domain.CaseTypeBattery:
		bc, err := h.tickets.GetBatteryCase(c.UserContext(), caseID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": batteryCaseResponse(bc)})
	default:
		return errorutil.NewValidationError("unknown case type", nil)
	}
}
