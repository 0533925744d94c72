package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. Values are the
// lowercase wire representation used in the API and in activity entries.
type TicketStatus string

const (
	TicketStatusOpen          TicketStatus = "open"
	TicketStatusInProgress    TicketStatus = "in_progress"
	TicketStatusWaitingOnUser TicketStatus = "waiting_on_user"
	TicketStatusResolved      TicketStatus = "resolved"
	TicketStatusClosed        TicketStatus = "closed"
	TicketStatusCancelled     TicketStatus = "cancelled"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketCategory enumerates issue categories.
type TicketCategory string

const (
	TicketCategoryHardware TicketCategory = "hardware"
	TicketCategorySoftware TicketCategory = "software"
	TicketCategoryNetwork  TicketCategory = "network"
	TicketCategoryAccess   TicketCategory = "access"
	TicketCategoryEmail    TicketCategory = "email"
	TicketCategoryPrinter  TicketCategory = "printer"
	TicketCategoryAccount  TicketCategory = "account"
	TicketCategoryOther    TicketCategory = "other"
)

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID               int64
	TicketNumber     string
	UserID           int64
	AssignedToID     *int64
	Title            string
	Description      string
	Category         TicketCategory
	Priority         TicketPriority
	Status           TicketStatus
	AIClassification *string
	AIConfidence     *float64
	SLADeadline      *time.Time
	ResolvedAt       *time.Time
	ClosedAt         *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ParseTicketStatus validates a status string.
func ParseTicketStatus(s string) (TicketStatus, bool) {
	switch TicketStatus(s) {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusWaitingOnUser,
		TicketStatusResolved, TicketStatusClosed, TicketStatusCancelled:
		return TicketStatus(s), true
	}
	return "", false
}

// ParseTicketPriority validates a priority string.
func ParseTicketPriority(s string) (TicketPriority, bool) {
	switch TicketPriority(s) {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return TicketPriority(s), true
	}
	return "", false
}

// ParseTicketCategory validates a category string.
func ParseTicketCategory(s string) (TicketCategory, bool) {
	switch TicketCategory(s) {
	case TicketCategoryHardware, TicketCategorySoftware, TicketCategoryNetwork,
		TicketCategoryAccess, TicketCategoryEmail, TicketCategoryPrinter,
		TicketCategoryAccount, TicketCategoryOther:
		return TicketCategory(s), true
	}
	return "", false
}
