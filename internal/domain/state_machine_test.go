package domain

import (
	"testing"
	"time"
)

func TestApplyStatusSetsResolvedAtOnce(t *testing.T) {
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)

	ticket := &Ticket{Status: TicketStatusInProgress}

	old := ApplyStatus(ticket, TicketStatusResolved, first)
	if old != TicketStatusInProgress {
		t.Errorf("old status = %s, want in_progress", old)
	}
	if ticket.ResolvedAt == nil || !ticket.ResolvedAt.Equal(first) {
		t.Fatalf("ResolvedAt = %v, want %v", ticket.ResolvedAt, first)
	}

	// Reopen and resolve again: the original timestamp must survive.
	ApplyStatus(ticket, TicketStatusOpen, second)
	ApplyStatus(ticket, TicketStatusResolved, second)
	if !ticket.ResolvedAt.Equal(first) {
		t.Errorf("ResolvedAt overwritten on second resolve: %v", ticket.ResolvedAt)
	}
}

func TestApplyStatusStampsClosedAtEveryTime(t *testing.T) {
	first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	ticket := &Ticket{Status: TicketStatusResolved}
	ApplyStatus(ticket, TicketStatusClosed, first)
	if ticket.ClosedAt == nil || !ticket.ClosedAt.Equal(first) {
		t.Fatalf("ClosedAt = %v, want %v", ticket.ClosedAt, first)
	}

	ApplyStatus(ticket, TicketStatusOpen, second)
	ApplyStatus(ticket, TicketStatusClosed, second)
	if !ticket.ClosedAt.Equal(second) {
		t.Errorf("ClosedAt = %v, want restamped %v", ticket.ClosedAt, second)
	}
}

func TestApplyStatusPermissiveGraph(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	statuses := []TicketStatus{
		TicketStatusOpen, TicketStatusInProgress, TicketStatusWaitingOnUser,
		TicketStatusResolved, TicketStatusClosed, TicketStatusCancelled,
	}
	for _, from := range statuses {
		for _, to := range statuses {
			ticket := &Ticket{Status: from}
			old := ApplyStatus(ticket, to, now)
			if old != from || ticket.Status != to {
				t.Errorf("transition %s -> %s: old=%s status=%s", from, to, old, ticket.Status)
			}
		}
	}
}

func TestApplyAssignment(t *testing.T) {
	cases := []struct {
		name       string
		status     TicketStatus
		wantStatus TicketStatus
	}{
		{"open advances", TicketStatusOpen, TicketStatusInProgress},
		{"in_progress unchanged", TicketStatusInProgress, TicketStatusInProgress},
		{"waiting unchanged", TicketStatusWaitingOnUser, TicketStatusWaitingOnUser},
		{"resolved unchanged", TicketStatusResolved, TicketStatusResolved},
		{"closed unchanged", TicketStatusClosed, TicketStatusClosed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ticket := &Ticket{Status: tc.status}
			oldAssignee, oldStatus := ApplyAssignment(ticket, 7)
			if oldAssignee != nil {
				t.Errorf("old assignee = %v, want nil", oldAssignee)
			}
			if oldStatus != tc.status {
				t.Errorf("old status = %s, want %s", oldStatus, tc.status)
			}
			if ticket.AssignedToID == nil || *ticket.AssignedToID != 7 {
				t.Errorf("assignee = %v, want 7", ticket.AssignedToID)
			}
			if ticket.Status != tc.wantStatus {
				t.Errorf("status = %s, want %s", ticket.Status, tc.wantStatus)
			}
		})
	}
}

func TestApplyAssignmentReturnsPreviousAssignee(t *testing.T) {
	prev := int64(3)
	ticket := &Ticket{Status: TicketStatusInProgress, AssignedToID: &prev}
	oldAssignee, _ := ApplyAssignment(ticket, 9)
	if oldAssignee == nil || *oldAssignee != 3 {
		t.Errorf("old assignee = %v, want 3", oldAssignee)
	}
	if *ticket.AssignedToID != 9 {
		t.Errorf("assignee = %d, want 9", *ticket.AssignedToID)
	}
}
