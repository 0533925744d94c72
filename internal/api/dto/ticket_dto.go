package dto

import (
	"time"

	"github.com/fixora/helpdesk/internal/classifier"
	"github.com/fixora/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	UserID      int64  `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// UpdateTicketRequest payload; absent fields stay untouched.
type UpdateTicketRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	Priority     *string `json:"priority"`
	Status       *string `json:"status"`
	AssignedToID *int64  `json:"assigned_to_id"`
}

// StatusUpdateRequest payload.
type StatusUpdateRequest struct {
	Status string `json:"status"`
	UserID *int64 `json:"user_id"`
}

// AssignRequest payload.
type AssignRequest struct {
	AssignedToID int64  `json:"assigned_to_id"`
	UserID       *int64 `json:"user_id"`
}

// CommentRequest payload.
type CommentRequest struct {
	Comment string `json:"comment"`
	UserID  *int64 `json:"user_id"`
}

// ClassificationWebhookRequest is the callback body posted by the external
// classifier.
type ClassificationWebhookRequest struct {
	Classification classifier.Payload `json:"classification"`
}

// TicketResponse full ticket representation.
type TicketResponse struct {
	ID               int64      `json:"id"`
	TicketNumber     string     `json:"ticket_number"`
	UserID           int64      `json:"user_id"`
	AssignedToID     *int64     `json:"assigned_to_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Category         string     `json:"category"`
	Priority         string     `json:"priority"`
	Status           string     `json:"status"`
	AIClassification *string    `json:"ai_classification"`
	AIConfidence     *float64   `json:"ai_confidence"`
	SLADeadline      *time.Time `json:"sla_deadline"`
	ResolvedAt       *time.Time `json:"resolved_at"`
	ClosedAt         *time.Time `json:"closed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TicketListResponse paginated listing.
type TicketListResponse struct {
	Tickets  []TicketResponse `json:"tickets"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// ActivityResponse audit entry.
type ActivityResponse struct {
	ID           int64     `json:"id"`
	TicketID     int64     `json:"ticket_id"`
	UserID       *int64    `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	Description  string    `json:"description"`
	OldValue     *string   `json:"old_value"`
	NewValue     *string   `json:"new_value"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:               t.ID,
		TicketNumber:     t.TicketNumber,
		UserID:           t.UserID,
		AssignedToID:     t.AssignedToID,
		Title:            t.Title,
		Description:      t.Description,
		Category:         string(t.Category),
		Priority:         string(t.Priority),
		Status:           string(t.Status),
		AIClassification: t.AIClassification,
		AIConfidence:     t.AIConfidence,
		SLADeadline:      t.SLADeadline,
		ResolvedAt:       t.ResolvedAt,
		ClosedAt:         t.ClosedAt,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// NewTicketListResponse maps a page of tickets.
func NewTicketListResponse(tickets []domain.Ticket, total, page, pageSize int) TicketListResponse {
	out := TicketListResponse{
		Tickets:  make([]TicketResponse, 0, len(tickets)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range tickets {
		out.Tickets = append(out.Tickets, NewTicketResponse(&tickets[i]))
	}
	return out
}

// NewActivityResponse maps a domain activity.
func NewActivityResponse(a *domain.TicketActivity) ActivityResponse {
	return ActivityResponse{
		ID:           a.ID,
		TicketID:     a.TicketID,
		UserID:       a.UserID,
		ActivityType: string(a.ActivityType),
		Description:  a.Description,
		OldValue:     a.OldValue,
		NewValue:     a.NewValue,
		CreatedAt:    a.CreatedAt,
	}
}

// NewActivityListResponse maps activities.
func NewActivityListResponse(activities []domain.TicketActivity) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(activities))
	for i := range activities {
		out = append(out, NewActivityResponse(&activities[i]))
	}
	return out
}
