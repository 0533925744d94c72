package repository

import (
	"context"
	"time"

	"github.com/fixora/helpdesk/internal/domain"
)

// DashboardStats aggregates ticket counts for the dashboard endpoint.
type DashboardStats struct {
	TotalTickets       int64   `json:"total_tickets"`
	OpenTickets        int64   `json:"open_tickets"`
	InProgressTickets  int64   `json:"in_progress_tickets"`
	ResolvedToday      int64   `json:"resolved_today"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
}

// CategoryCount is one row of the per-category breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// StatusCount is one row of the per-status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// PriorityCount is one row of the per-priority breakdown.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int64  `json:"count"`
}

// MetricsRepository runs the dashboard aggregate queries.
type MetricsRepository interface {
	DashboardStats(ctx context.Context, now time.Time) (*DashboardStats, error)
	TicketsByCategory(ctx context.Context) ([]CategoryCount, error)
	TicketsByStatus(ctx context.Context) ([]StatusCount, error)
	TicketsByPriority(ctx context.Context) ([]PriorityCount, error)
}

type metricsRepository struct {
	db Querier
}

// NewMetricsRepository builds repository.
func NewMetricsRepository(db Querier) MetricsRepository {
	return &metricsRepository{db: db}
}

func (r *metricsRepository) DashboardStats(ctx context.Context, now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{}

	const countsQuery = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status=$1),
               COUNT(*) FILTER (WHERE status=$2),
               COUNT(*) FILTER (WHERE status=$3 AND resolved_at >= $4)
        FROM tickets`
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := r.db.QueryRow(ctx, countsQuery,
		domain.TicketStatusOpen,
		domain.TicketStatusInProgress,
		domain.TicketStatusResolved,
		todayStart,
	).Scan(&stats.TotalTickets, &stats.OpenTickets, &stats.InProgressTickets, &stats.ResolvedToday); err != nil {
		return nil, err
	}

	// Average over the 100 most recently resolved tickets, matching the
	// dashboard's rolling view.
	const avgQuery = `
        SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)) / 3600.0), 0)
        FROM (
            SELECT created_at, resolved_at FROM tickets
            WHERE resolved_at IS NOT NULL
            ORDER BY resolved_at DESC LIMIT 100
        ) recent`
	if err := r.db.QueryRow(ctx, avgQuery).Scan(&stats.AvgResolutionHours); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *metricsRepository) TicketsByCategory(ctx context.Context) ([]CategoryCount, error) {
	const query = `SELECT category, COUNT(*) FROM tickets GROUP BY category ORDER BY category`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CategoryCount
	for rows.Next() {
		var row CategoryCount
		if err := rows.Scan(&row.Category, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *metricsRepository) TicketsByStatus(ctx context.Context) ([]StatusCount, error) {
	const query = `SELECT status, COUNT(*) FROM tickets GROUP BY status ORDER BY status`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []StatusCount
	for rows.Next() {
		var row StatusCount
		if err := rows.Scan(&row.Status, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *metricsRepository) TicketsByPriority(ctx context.Context) ([]PriorityCount, error) {
	const query = `SELECT priority, COUNT(*) FROM tickets GROUP BY priority ORDER BY priority`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PriorityCount
	for rows.Next() {
		var row PriorityCount
		if err := rows.Scan(&row.Priority, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
