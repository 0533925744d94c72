package domain

import "time"

// ActivityType captures what kind of change an activity entry records.
type ActivityType string

const (
	ActivityCreated         ActivityType = "created"
	ActivityUpdated         ActivityType = "updated"
	ActivityComment         ActivityType = "comment"
	ActivityStatusChanged   ActivityType = "status_changed"
	ActivityAssigned        ActivityType = "assigned"
	ActivityPriorityChanged ActivityType = "priority_changed"
	ActivityResolved        ActivityType = "resolved"
	ActivityClosed          ActivityType = "closed"
	ActivityReopened        ActivityType = "reopened"
)

// TicketActivity is an immutable audit trail entry. Entries are only ever
// inserted, never updated or deleted, and belong to exactly one ticket.
// UserID is nil for system-generated entries.
type TicketActivity struct {
	ID           int64
	TicketID     int64
	UserID       *int64
	ActivityType ActivityType
	Description  string
	OldValue     *string
	NewValue     *string
	CreatedAt    time.Time
}
