package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fixora/helpdesk/internal/domain"
	"github.com/fixora/helpdesk/internal/repository"
	apperrors "github.com/fixora/helpdesk/pkg/util"
)

// UserService manages the user directory.
type UserService struct {
	users repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// CreateUserInput describes a new directory entry.
type CreateUserInput struct {
	Email       string
	FullName    string
	SlackUserID *string
	Department  *string
	Role        domain.UserRole
	Phone       *string
}

// UpdateUserInput carries partial updates; nil fields stay untouched.
type UpdateUserInput struct {
	FullName    *string
	SlackUserID *string
	Department  *string
	Role        *domain.UserRole
	IsActive    *bool
	Phone       *string
}

// Create registers a user; duplicate emails are a conflict.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.UserRoleEmployee
	}
	user := &domain.User{
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		FullName:    strings.TrimSpace(input.FullName),
		SlackUserID: input.SlackUserID,
		Department:  input.Department,
		Role:        role,
		IsActive:    true,
		Phone:       input.Phone,
	}
	if err := s.users.Create(ctx, user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": user.Email})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// GetByEmail fetches a user by email, case-insensitively.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// GetBySlackID fetches a user by their Slack user id.
func (s *UserService) GetBySlackID(ctx context.Context, slackUserID string) (*domain.User, error) {
	user, err := s.users.GetBySlackID(ctx, slackUserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"slack_user_id": slackUserID})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// EnsureSlackUser finds the directory entry for a Slack user, provisioning
// a placeholder entry on first contact so tickets raised from Slack always
// have a real creator.
func (s *UserService) EnsureSlackUser(ctx context.Context, slackUserID string) (*domain.User, error) {
	user, err := s.users.GetBySlackID(ctx, slackUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}
	slackID := slackUserID
	return s.Create(ctx, CreateUserInput{
		Email:       slackUserID + "@slack.local",
		FullName:    "Slack User " + slackUserID,
		SlackUserID: &slackID,
	})
}

// ITStaff lists active support staff and admins.
func (s *UserService) ITStaff(ctx context.Context) ([]domain.User, error) {
	active := true
	users, err := s.users.List(ctx, repository.UserFilter{
		Roles:    []domain.UserRole{domain.UserRoleITSupport, domain.UserRoleAdmin},
		IsActive: &active,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// List returns directory entries matching the filter.
func (s *UserService) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Update applies partial changes to a user.
func (s *UserService) Update(ctx context.Context, id int64, input UpdateUserInput) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.SlackUserID != nil {
		user.SlackUserID = input.SlackUserID
	}
	if input.Department != nil {
		user.Department = input.Department
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
