package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/e-wheels/workshop-service/internal/api/dto"
	"github.com/e-wheels/workshop-service/internal/auth"
	"github.com/e-wheels/workshop-service/internal/domain"
	"github.com/e-wheels/workshop-service/internal/service"
	"github.com/e-wheels/workshop-service/pkg/errorutil"
)

// AttachmentsHandler manages media upload and listing endpoints.
type AttachmentsHandler struct {
	attachments *service.AttachmentService
}

// NewAttachmentsHandler constructs handler.
func NewAttachmentsHandler(attachments *service.AttachmentService) *AttachmentsHandler {
	return &AttachmentsHandler{attachments: attachments}
}

// Upload POST /tickets/:id/attachments (multipart). Optional form fields
// case_type and case_id scope the attachment to one of the ticket's cases.
func (h *AttachmentsHandler) Upload(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("authentication required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return errorutil.NewValidationError("file part required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return errorutil.NewValidationError("unreadable file part", nil)
	}
	defer file.Close()

	input := service.AttachmentUploadInput{
		TicketID:     c.Params("id"),
		Kind:         domain.AttachmentKind(c.FormValue("kind", string(domain.AttachmentKindPhoto))),
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		SizeBytes:    fileHeader.Size,
		Payload:      file,
	}
	if v := c.FormValue("case_type"); v != "" {
		caseType := domain.CaseType(v)
		input.CaseType = &caseType
	}
	if v := c.FormValue("case_id"); v != "" {
		input.CaseID = &v
	}
	if v := c.FormValue("duration_seconds"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			input.DurationSeconds = &seconds
		}
	}

	attachment, err := h.attachments.Upload(c.UserContext(), input, principal.Actor())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": attachmentResponse(attachment)})
}

// Replace PUT /attachments/:id (multipart). The new payload keeps the old
// attachment's ticket and case association.
func (h *AttachmentsHandler) Replace(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return errorutil.NewUnauthorized("authentication required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return errorutil.NewValidationError("file part required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return errorutil.NewValidationError("unreadable file part", nil)
	}
	defer file.Close()

	input := service.AttachmentUploadInput{
		Kind:         domain.AttachmentKind(c.FormValue("kind")),
		OriginalName: fileHeader.Filename,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		SizeBytes:    fileHeader.Size,
		Payload:      file,
	}

	attachment, err := h.attachments.Replace(c.UserContext(), c.Params("id"), input, principal.Actor())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": attachmentResponse(attachment)})
}

// Delete DELETE /attachments/:id.
func (h *AttachmentsHandler) Delete(c *fiber.Ctx) error {
	if err := h.attachments.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListForTicket GET /tickets/:id/attachments.
func (h *AttachmentsHandler) ListForTicket(c *fiber.Ctx) error {
	items, err := h.attachments.ListForTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": attachmentResponses(items)})
}

// ListForCase GET /cases/:type/:id/attachments.
func (h *AttachmentsHandler) ListForCase(c *fiber.Ctx) error {
	items, err := h.attachments.ListForCase(c.UserContext(), domain.CaseType(c.Params("type")), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": attachmentResponses(items)})
}

func attachmentResponses(items []domain.Attachment) []dto.AttachmentResponse {
	out := make([]dto.AttachmentResponse, 0, len(items))
	for i := range items {
		out = append(out, attachmentResponse(&items[i]))
	}
	return out
}
