package repository

import (
	"context"

	"github.com/fixora/helpdesk/internal/domain"
)

// SLAPolicyRepository reads the policy table. Policies are configuration;
// ticket operations never write them, so there is no tx-bound variant.
type SLAPolicyRepository interface {
	GetByPriority(ctx context.Context, priority domain.TicketPriority) (*domain.SLAPolicy, error)
	List(ctx context.Context) ([]domain.SLAPolicy, error)
}

type slaPolicyRepository struct {
	db Querier
}

// NewSLAPolicyRepository builds repository.
func NewSLAPolicyRepository(db Querier) SLAPolicyRepository {
	return &slaPolicyRepository{db: db}
}

func (r *slaPolicyRepository) GetByPriority(ctx context.Context, priority domain.TicketPriority) (*domain.SLAPolicy, error) {
	const query = `
        SELECT id, priority, response_time_hours, resolution_time_hours, description
        FROM sla_policies WHERE priority=$1`
	var policy domain.SLAPolicy
	if err := r.db.QueryRow(ctx, query, priority).Scan(
		&policy.ID,
		&policy.Priority,
		&policy.ResponseTimeHours,
		&policy.ResolutionTimeHours,
		&policy.Description,
	); err != nil {
		return nil, err
	}
	return &policy, nil
}

func (r *slaPolicyRepository) List(ctx context.Context) ([]domain.SLAPolicy, error) {
	const query = `
        SELECT id, priority, response_time_hours, resolution_time_hours, description
        FROM sla_policies ORDER BY id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SLAPolicy
	for rows.Next() {
		var policy domain.SLAPolicy
		if err := rows.Scan(
			&policy.ID,
			&policy.Priority,
			&policy.ResponseTimeHours,
			&policy.ResolutionTimeHours,
			&policy.Description,
		); err != nil {
			return nil, err
		}
		result = append(result, policy)
	}
	return result, rows.Err()
}
