package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fixora/helpdesk/internal/api/dto"
	"github.com/fixora/helpdesk/internal/auth"
	"github.com/fixora/helpdesk/internal/domain"
	"github.com/fixora/helpdesk/internal/repository"
	"github.com/fixora/helpdesk/internal/service"
	apperrors "github.com/fixora/helpdesk/pkg/util"
)

// UsersHandler manages the user directory endpoints.
type UsersHandler struct {
	service *service.UserService
	tokens  *auth.TokenManager
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, tokens *auth.TokenManager) *UsersHandler {
	return &UsersHandler{service: userService, tokens: tokens}
}

// CreateUser POST /users.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.FullName) == "" {
		return apperrors.NewValidationError("email and full_name required", nil)
	}
	var role domain.UserRole
	if req.Role != "" {
		parsed, ok := domain.ParseUserRole(req.Role)
		if !ok {
			return apperrors.NewValidationError("invalid role", map[string]any{"role": req.Role})
		}
		role = parsed
	}
	user, err := h.service.Create(c.UserContext(), service.CreateUserInput{
		Email:       req.Email,
		FullName:    req.FullName,
		SlackUserID: req.SlackUserID,
		Department:  req.Department,
		Role:        role,
		Phone:       req.Phone,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// ListUsers GET /users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	var filter repository.UserFilter
	if raw := c.Query("role"); raw != "" {
		role, ok := domain.ParseUserRole(raw)
		if !ok {
			return apperrors.NewValidationError("invalid role", map[string]any{"role": raw})
		}
		filter.Role = &role
	}
	if raw := c.Query("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return apperrors.NewValidationError("invalid is_active", nil)
		}
		filter.IsActive = &active
	}
	filter.Limit = c.QueryInt("limit", 0)
	filter.Offset = c.QueryInt("offset", 0)

	users, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserListResponse(users)})
}

// GetUserByEmail GET /users/email/:email.
func (h *UsersHandler) GetUserByEmail(c *fiber.Ctx) error {
	email := c.Params("email")
	if email == "" {
		return apperrors.NewValidationError("email required", nil)
	}
	user, err := h.service.GetByEmail(c.UserContext(), email)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// GetUserBySlackID GET /users/slack/:slack_user_id.
func (h *UsersHandler) GetUserBySlackID(c *fiber.Ctx) error {
	slackUserID := c.Params("slack_user_id")
	if slackUserID == "" {
		return apperrors.NewValidationError("slack_user_id required", nil)
	}
	user, err := h.service.GetBySlackID(c.UserContext(), slackUserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// ListITStaff GET /users/it-staff/list.
func (h *UsersHandler) ListITStaff(c *fiber.Ctx) error {
	staff, err := h.service.ITStaff(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":  dto.NewUserListResponse(staff),
		"total": len(staff),
	})
}

// GetUser GET /users/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateUser PATCH /users/:id.
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	input := service.UpdateUserInput{
		FullName:    req.FullName,
		SlackUserID: req.SlackUserID,
		Department:  req.Department,
		IsActive:    req.IsActive,
		Phone:       req.Phone,
	}
	if req.Role != nil {
		role, ok := domain.ParseUserRole(*req.Role)
		if !ok {
			return apperrors.NewValidationError("invalid role", map[string]any{"role": *req.Role})
		}
		input.Role = &role
	}
	user, err := h.service.Update(c.UserContext(), id, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// IssueToken POST /users/:id/token. Mints an actor token for a directory
// entry; the token carries identity only.
func (h *UsersHandler) IssueToken(c *fiber.Ctx) error {
	id, err := userID(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	token, err := h.tokens.Issue(user)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{"data": dto.TokenResponse{Token: token}})
}

func userID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid user id", nil)
	}
	return id, nil
}
