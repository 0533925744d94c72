// Package sla computes resolution deadlines from the SLA policy table.
package sla

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fixora/helpdesk/internal/domain"
)

// PolicyStore looks up the policy row for a priority.
type PolicyStore interface {
	GetByPriority(ctx context.Context, priority domain.TicketPriority) (*domain.SLAPolicy, error)
}

// Calculator maps a priority to a resolution deadline. It is a pure
// function of the policy table and the supplied time; a missing policy
// yields no deadline rather than an error.
type Calculator struct {
	policies PolicyStore
}

// NewCalculator constructs the calculator.
func NewCalculator(policies PolicyStore) *Calculator {
	return &Calculator{policies: policies}
}

// Deadline returns now + resolution_time_hours for the priority's policy,
// or nil when no policy exists for that priority.
func (c *Calculator) Deadline(ctx context.Context, priority domain.TicketPriority, now time.Time) (*time.Time, error) {
	policy, err := c.policies.GetByPriority(ctx, priority)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	deadline := now.Add(time.Duration(policy.ResolutionTimeHours) * time.Hour)
	return &deadline, nil
}
