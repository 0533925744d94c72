package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fixora/helpdesk/internal/domain"
)

// ActivityRepository stores the append-only audit trail. Entries are never
// updated or deleted.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.TicketActivity) error
	// ListByTicket returns entries newest-first. A limit of 0 means all.
	ListByTicket(ctx context.Context, ticketID int64, limit, offset int) ([]domain.TicketActivity, error)
	WithTx(tx pgx.Tx) ActivityRepository
}

type activityRepository struct {
	db Querier
}

// NewActivityRepository builds repository.
func NewActivityRepository(db Querier) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) WithTx(tx pgx.Tx) ActivityRepository {
	return &activityRepository{db: tx}
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.TicketActivity) error {
	const query = `
        INSERT INTO ticket_activities (ticket_id, user_id, activity_type, description, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		activity.TicketID,
		activity.UserID,
		activity.ActivityType,
		activity.Description,
		activity.OldValue,
		activity.NewValue,
	).Scan(&activity.ID, &activity.CreatedAt)
}

func (r *activityRepository) ListByTicket(ctx context.Context, ticketID int64, limit, offset int) ([]domain.TicketActivity, error) {
	query := `
        SELECT id, ticket_id, user_id, activity_type, description, old_value, new_value, created_at
        FROM ticket_activities WHERE ticket_id=$1
        ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", offset)
	}
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketActivity
	for rows.Next() {
		var activity domain.TicketActivity
		if err := rows.Scan(
			&activity.ID,
			&activity.TicketID,
			&activity.UserID,
			&activity.ActivityType,
			&activity.Description,
			&activity.OldValue,
			&activity.NewValue,
			&activity.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, activity)
	}
	return result, rows.Err()
}
