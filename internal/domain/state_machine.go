package domain

import "time"

// The status graph is deliberately permissive: any status may be set from
// any other, matching how support staff actually work (including reopening
// closed tickets). Side effects of a transition live here so that a
// transition table could be enforced in one place if that ever changes.

// ApplyStatus sets the ticket's status and applies the transition's
// timestamp side effects. ResolvedAt is written only on the first entry
// into resolved; ClosedAt is stamped on every close. The previous status
// is returned for audit logging.
func ApplyStatus(t *Ticket, next TicketStatus, now time.Time) TicketStatus {
	old := t.Status
	t.Status = next
	switch next {
	case TicketStatusResolved:
		if t.ResolvedAt == nil {
			resolvedAt := now
			t.ResolvedAt = &resolvedAt
		}
	case TicketStatusClosed:
		closedAt := now
		t.ClosedAt = &closedAt
	}
	return old
}

// ApplyAssignment sets the assignee and auto-advances an open ticket to
// in_progress; any other status is left untouched. Returns the previous
// assignee and status for audit logging.
func ApplyAssignment(t *Ticket, assigneeID int64) (oldAssignee *int64, oldStatus TicketStatus) {
	oldAssignee = t.AssignedToID
	oldStatus = t.Status
	t.AssignedToID = &assigneeID
	if t.Status == TicketStatusOpen {
		t.Status = TicketStatusInProgress
	}
	return oldAssignee, oldStatus
}
