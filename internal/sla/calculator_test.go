package sla

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fixora/helpdesk/internal/domain"
)

type fakePolicyStore struct {
	policies map[domain.TicketPriority]*domain.SLAPolicy
	err      error
}

func (f *fakePolicyStore) GetByPriority(_ context.Context, priority domain.TicketPriority) (*domain.SLAPolicy, error) {
	if f.err != nil {
		return nil, f.err
	}
	policy, ok := f.policies[priority]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return policy, nil
}

func standardPolicies() map[domain.TicketPriority]*domain.SLAPolicy {
	return map[domain.TicketPriority]*domain.SLAPolicy{
		domain.TicketPriorityUrgent: {Priority: domain.TicketPriorityUrgent, ResolutionTimeHours: 4},
		domain.TicketPriorityHigh:   {Priority: domain.TicketPriorityHigh, ResolutionTimeHours: 8},
		domain.TicketPriorityMedium: {Priority: domain.TicketPriorityMedium, ResolutionTimeHours: 24},
		domain.TicketPriorityLow:    {Priority: domain.TicketPriorityLow, ResolutionTimeHours: 72},
	}
}

func TestDeadlineAddsResolutionHours(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	calc := NewCalculator(&fakePolicyStore{policies: standardPolicies()})

	cases := []struct {
		priority domain.TicketPriority
		want     time.Time
	}{
		{domain.TicketPriorityUrgent, now.Add(4 * time.Hour)},
		{domain.TicketPriorityHigh, now.Add(8 * time.Hour)},
		{domain.TicketPriorityMedium, now.Add(24 * time.Hour)},
		{domain.TicketPriorityLow, now.Add(72 * time.Hour)},
	}
	for _, tc := range cases {
		t.Run(string(tc.priority), func(t *testing.T) {
			deadline, err := calc.Deadline(context.Background(), tc.priority, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if deadline == nil || !deadline.Equal(tc.want) {
				t.Errorf("deadline = %v, want %v", deadline, tc.want)
			}
		})
	}
}

func TestDeadlineMissingPolicy(t *testing.T) {
	calc := NewCalculator(&fakePolicyStore{policies: map[domain.TicketPriority]*domain.SLAPolicy{}})
	deadline, err := calc.Deadline(context.Background(), domain.TicketPriorityHigh, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deadline != nil {
		t.Errorf("deadline = %v, want nil without a policy", deadline)
	}
}

func TestDeadlinePropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection reset")
	calc := NewCalculator(&fakePolicyStore{err: storeErr})
	_, err := calc.Deadline(context.Background(), domain.TicketPriorityHigh, time.Now())
	if !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want %v", err, storeErr)
	}
}
