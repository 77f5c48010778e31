package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AgentTicketsHandler covers the agent workspace endpoints.
type AgentTicketsHandler struct {
	tickets  *service.TicketService
	audits   *service.AuditService
	feedback *service.FeedbackService
}

// NewAgentTicketsHandler constructs handler.
func NewAgentTicketsHandler(tickets *service.TicketService, audits *service.AuditService, feedback *service.FeedbackService) *AgentTicketsHandler {
	return &AgentTicketsHandler{tickets: tickets, audits: audits, feedback: feedback}
}

// ListAssigned GET /agent/tickets.
func (h *AgentTicketsHandler) ListAssigned(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	tickets, err := h.tickets.ListAgentTickets(c.UserContext(), principal.User.ID, parseTicketQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summaries(tickets)})
}

// GetTicket GET /agent/tickets/:id.
func (h *AgentTicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.tickets.GetTicketForAgent(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// UpdateStatus PATCH /agent/tickets/:id/status.
func (h *AgentTicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.UpdateStatus(c.UserContext(), principal.User, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket)})
}

// ListAudits GET /agent/tickets/:id/audits.
func (h *AgentTicketsHandler) ListAudits(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	// Authorization piggybacks on the ticket fetch.
	if _, err := h.tickets.GetTicketForAgent(c.UserContext(), principal.User, c.Params("id")); err != nil {
		return err
	}
	audits, err := h.audits.ListByTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	items := make([]dto.AuditResponse, 0, len(audits))
	for _, entry := range audits {
		items = append(items, dto.AuditResponse{
			ID:            entry.ID,
			Action:        entry.Action,
			FieldChanged:  entry.FieldChanged,
			PreviousValue: entry.PreviousValue,
			NewValue:      entry.NewValue,
			ActorID:       entry.ActorID,
			ActorName:     entry.ActorName,
			CreatedAt:     entry.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListFeedback GET /agent/feedback.
func (h *AgentTicketsHandler) ListFeedback(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)

	entries, err := h.feedback.ListAgentFeedback(c.UserContext(), principal.User.ID, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}

	items := make([]dto.FeedbackResponse, 0, len(entries))
	for _, fb := range entries {
		items = append(items, dto.FeedbackResponse{
			ID:        fb.ID,
			TicketID:  fb.TicketID,
			AgentID:   fb.AgentID,
			Rating:    fb.Rating,
			Comment:   fb.Comment,
			CreatedAt: fb.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
