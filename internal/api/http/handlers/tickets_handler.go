package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fixora/helpdesk/internal/api/dto"
	"github.com/fixora/helpdesk/internal/auth"
	"github.com/fixora/helpdesk/internal/classifier"
	"github.com/fixora/helpdesk/internal/domain"
	"github.com/fixora/helpdesk/internal/repository"
	"github.com/fixora/helpdesk/internal/service"
	apperrors "github.com/fixora/helpdesk/pkg/util"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// TicketsHandler exposes the ticket lifecycle endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return apperrors.NewValidationError("title and description required", nil)
	}
	userID := req.UserID
	if actor, ok := auth.ActorFromContext(c); ok {
		userID = actor
	}
	if userID == 0 {
		return apperrors.NewValidationError("user_id required", nil)
	}
	category := domain.TicketCategoryOther
	if req.Category != "" {
		parsed, ok := domain.ParseTicketCategory(req.Category)
		if !ok {
			return apperrors.NewValidationError("invalid category", map[string]any{"category": req.Category})
		}
		category = parsed
	}

	ticket, err := h.service.Create(c.UserContext(), service.CreateTicketInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter, page, pageSize, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	tickets, total, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketListResponse(tickets, total, page, pageSize)})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// GetTicketByNumber GET /tickets/number/:ticket_number.
func (h *TicketsHandler) GetTicketByNumber(c *fiber.Ctx) error {
	number := c.Params("ticket_number")
	if number == "" {
		return apperrors.NewValidationError("ticket_number required", nil)
	}
	ticket, err := h.service.GetByNumber(c.UserContext(), number)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	actorID, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewValidationError("actor identity required", nil)
	}

	input := service.UpdateTicketInput{
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
	}
	if req.Category != nil {
		category, ok := domain.ParseTicketCategory(*req.Category)
		if !ok {
			return apperrors.NewValidationError("invalid category", map[string]any{"category": *req.Category})
		}
		input.Category = &category
	}
	if req.Priority != nil {
		priority, ok := domain.ParseTicketPriority(*req.Priority)
		if !ok {
			return apperrors.NewValidationError("invalid priority", map[string]any{"priority": *req.Priority})
		}
		input.Priority = &priority
	}
	if req.Status != nil {
		status, ok := domain.ParseTicketStatus(*req.Status)
		if !ok {
			return apperrors.NewValidationError("invalid status", map[string]any{"status": *req.Status})
		}
		input.Status = &status
	}

	ticket, err := h.service.Update(c.UserContext(), id, input, actorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ChangeStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	status, ok := domain.ParseTicketStatus(req.Status)
	if !ok {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": req.Status})
	}
	actorID, err := resolveActor(c, req.UserID)
	if err != nil {
		return err
	}
	ticket, err := h.service.ChangeStatus(c.UserContext(), id, status, actorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// AssignTicket PATCH /tickets/:id/assign.
func (h *TicketsHandler) AssignTicket(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssignedToID == 0 {
		return apperrors.NewValidationError("assigned_to_id required", nil)
	}
	actorID, err := resolveActor(c, req.UserID)
	if err != nil {
		return err
	}
	ticket, err := h.service.Assign(c.UserContext(), id, req.AssignedToID, actorID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Comment) == "" {
		return apperrors.NewValidationError("comment required", nil)
	}
	actorID, err := resolveActor(c, req.UserID)
	if err != nil {
		return err
	}
	activity, err := h.service.AddComment(c.UserContext(), id, req.Comment, actorID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewActivityResponse(activity)})
}

// ListActivities GET /tickets/:id/activities.
func (h *TicketsHandler) ListActivities(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)
	if limit < 0 || offset < 0 {
		return apperrors.NewValidationError("limit and offset must be non-negative", nil)
	}
	activities, err := h.service.ListActivities(c.UserContext(), id, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActivityListResponse(activities)})
}

// DeleteTicket DELETE /tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUserTickets GET /tickets/user/:user_id.
func (h *TicketsHandler) ListUserTickets(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		return apperrors.NewValidationError("invalid user id", nil)
	}
	filter, page, pageSize, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	filter.UserID = &userID
	tickets, total, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketListResponse(tickets, total, page, pageSize)})
}

// ClassificationWebhook POST /tickets/:id/classification. Called back by
// the external classifier; the payload is normalized with fallbacks before
// it reaches the ticket.
func (h *TicketsHandler) ClassificationWebhook(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.ClassificationWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	result := classifier.ParsePayload(req.Classification)
	ticket, err := h.service.Reconcile(c.UserContext(), id, result)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

func ticketID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid ticket id", nil)
	}
	return id, nil
}

// resolveActor prefers the authenticated identity and falls back to an
// explicit user_id in the body. Mutations without any actor are rejected.
func resolveActor(c *fiber.Ctx, bodyUserID *int64) (int64, error) {
	if actor, ok := auth.ActorFromContext(c); ok {
		return actor, nil
	}
	if bodyUserID != nil && *bodyUserID > 0 {
		return *bodyUserID, nil
	}
	return 0, apperrors.NewValidationError("actor identity required", nil)
}

func parseTicketQuery(c *fiber.Ctx) (repository.TicketFilter, int, int, error) {
	var filter repository.TicketFilter

	if raw := c.Query("status"); raw != "" {
		status, ok := domain.ParseTicketStatus(raw)
		if !ok {
			return filter, 0, 0, apperrors.NewValidationError("invalid status", map[string]any{"status": raw})
		}
		filter.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority, ok := domain.ParseTicketPriority(raw)
		if !ok {
			return filter, 0, 0, apperrors.NewValidationError("invalid priority", map[string]any{"priority": raw})
		}
		filter.Priority = &priority
	}
	if raw := c.Query("category"); raw != "" {
		category, ok := domain.ParseTicketCategory(raw)
		if !ok {
			return filter, 0, 0, apperrors.NewValidationError("invalid category", map[string]any{"category": raw})
		}
		filter.Category = &category
	}
	if raw := c.Query("assigned_to"); raw != "" {
		assignee, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return filter, 0, 0, apperrors.NewValidationError("invalid assigned_to", nil)
		}
		filter.AssignedToID = &assignee
	}
	if raw := strings.TrimSpace(c.Query("search")); raw != "" {
		filter.Search = &raw
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize
	return filter, page, pageSize, nil
}
