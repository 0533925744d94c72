package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/fixora/helpdesk/internal/classifier"
	"github.com/fixora/helpdesk/internal/domain"
	"github.com/fixora/helpdesk/internal/events"
	"github.com/fixora/helpdesk/internal/repository"
	"github.com/fixora/helpdesk/internal/sla"
	apperrors "github.com/fixora/helpdesk/pkg/util"
)

// maxCreateAttempts bounds retries when concurrent creations collide on
// the same ticket number.
const maxCreateAttempts = 3

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error
	WithSerializableTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Classifier submits ticket text for external AI classification.
type Classifier interface {
	Enabled() bool
	Classify(ctx context.Context, ticketID int64, title, description string) (*classifier.Result, error)
}

// TicketService is the ticket lifecycle engine. Every mutating operation
// runs as one transaction covering both the ticket write and its activity
// entries; a ticket row without its audit entry must never be observable.
type TicketService struct {
	db              TxRunner
	tickets         repository.TicketRepository
	activities      repository.ActivityRepository
	sla             *sla.Calculator
	classifier      Classifier
	classifyTimeout time.Duration
	dispatcher      events.Dispatcher
	logger          *zap.Logger
	now             func() time.Time
}

// TicketDependencies bundles collaborators for the engine.
type TicketDependencies struct {
	DB              TxRunner
	TicketRepo      repository.TicketRepository
	ActivityRepo    repository.ActivityRepository
	SLA             *sla.Calculator
	Classifier      Classifier
	ClassifyTimeout time.Duration
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// NewTicketService constructs the engine.
func NewTicketService(deps TicketDependencies) *TicketService {
	timeout := deps.ClassifyTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &TicketService{
		db:              deps.DB,
		tickets:         deps.TicketRepo,
		activities:      deps.ActivityRepo,
		sla:             deps.SLA,
		classifier:      deps.Classifier,
		classifyTimeout: timeout,
		dispatcher:      deps.Dispatcher,
		logger:          deps.Logger,
		now:             time.Now,
	}
}

// CreateTicketInput describes ticket creation payload.
type CreateTicketInput struct {
	UserID      int64
	Title       string
	Description string
	Category    domain.TicketCategory
}

// UpdateTicketInput carries the fields of a partial update; nil fields are
// left untouched.
type UpdateTicketInput struct {
	Title        *string
	Description  *string
	Category     *domain.TicketCategory
	Priority     *domain.TicketPriority
	Status       *domain.TicketStatus
	AssignedToID *int64
}

// Create generates a ticket number, computes the SLA deadline for the
// default priority and persists the ticket with its `created` activity in
// one serializable transaction. Number generation reads the current year
// maximum inside that transaction; the unique index on ticket_number is
// the backstop, and collisions are retried a bounded number of times.
// After commit the ticket is submitted for AI classification best-effort.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	now := s.now()
	deadline, err := s.sla.Deadline(ctx, domain.TicketPriorityMedium, now)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	var ticket *domain.Ticket
	for attempt := 1; ; attempt++ {
		ticket = &domain.Ticket{
			UserID:      input.UserID,
			Title:       strings.TrimSpace(input.Title),
			Description: strings.TrimSpace(input.Description),
			Category:    input.Category,
			Priority:    domain.TicketPriorityMedium,
			Status:      domain.TicketStatusOpen,
			SLADeadline: deadline,
		}
		err = s.db.WithSerializableTx(ctx, func(tx pgx.Tx) error {
			tickets := s.tickets.WithTx(tx)
			year := s.now().Year()
			last, err := tickets.LastNumberForYear(ctx, domain.TicketNumberPrefixForYear(year))
			if err != nil {
				return err
			}
			number, err := domain.NextTicketNumber(year, last)
			if err != nil {
				return err
			}
			ticket.TicketNumber = number
			if err := tickets.Create(ctx, ticket); err != nil {
				return err
			}
			userID := input.UserID
			return s.activities.WithTx(tx).Create(ctx, &domain.TicketActivity{
				TicketID:     ticket.ID,
				UserID:       &userID,
				ActivityType: domain.ActivityCreated,
				Description:  "Ticket created: " + ticket.Title,
			})
		})
		if err == nil {
			break
		}
		if isRetryableConflict(err) {
			if attempt < maxCreateAttempts {
				s.logger.Warn("ticket number collision, retrying",
					zap.Int("attempt", attempt), zap.Error(err))
				continue
			}
			return nil, apperrors.NewConflict("ticket number allocation conflict", nil)
		}
		if errors.Is(err, domain.ErrTicketSequenceExhausted) {
			return nil, apperrors.NewConflict(err.Error(), nil)
		}
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketCreated,
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Actor:        userActor(input.UserID),
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Category: ticket.Category,
			Priority: ticket.Priority,
		},
	})

	if s.classifier != nil && s.classifier.Enabled() {
		go s.classifyCreated(*ticket)
	}
	return ticket, nil
}

// classifyCreated runs off the request path. Classification is advisory;
// any failure is logged and the ticket stands as created.
func (s *TicketService) classifyCreated(ticket domain.Ticket) {
	ctx, cancel := context.WithTimeout(context.Background(), s.classifyTimeout)
	defer cancel()

	result, err := s.classifier.Classify(ctx, ticket.ID, ticket.Title, ticket.Description)
	if err != nil {
		s.logger.Warn("ai classification failed",
			zap.Int64("ticket_id", ticket.ID),
			zap.String("ticket_number", ticket.TicketNumber),
			zap.Error(err))
		return
	}
	if _, err := s.Reconcile(ctx, ticket.ID, *result); err != nil {
		s.logger.Warn("ai classification reconcile failed",
			zap.Int64("ticket_id", ticket.ID),
			zap.Error(err))
	}
}

// Get fetches a ticket by id.
func (s *TicketService) Get(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.mapTicketErr(err, ticketID)
	}
	return ticket, nil
}

// GetByNumber fetches a ticket by its public number, e.g. TKT-2026-0001.
func (s *TicketService) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_number": number})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// List returns tickets matching the filter plus the unpaginated total.
func (s *TicketService) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, int, error) {
	tickets, total, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return tickets, total, nil
}

// Update applies the fields present in the input. Each field that actually
// changes is written and logged as one `updated` activity; when nothing
// changes, nothing is written and no audit noise is produced. Update never
// recomputes the SLA deadline, even for priority changes: only creation
// and classification reconciliation touch it.
func (s *TicketService) Update(ctx context.Context, ticketID int64, input UpdateTicketInput, actorID int64) (*domain.Ticket, error) {
	var ticket *domain.Ticket
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		tickets := s.tickets.WithTx(tx)
		activities := s.activities.WithTx(tx)

		var err error
		ticket, err = tickets.GetByID(ctx, ticketID)
		if err != nil {
			return err
		}

		changes := collectChanges(ticket, input)
		if len(changes) == 0 {
			return nil
		}
		if err := tickets.Update(ctx, ticket); err != nil {
			return err
		}
		for _, change := range changes {
			if err := activities.Create(ctx, &domain.TicketActivity{
				TicketID:     ticket.ID,
				UserID:       &actorID,
				ActivityType: domain.ActivityUpdated,
				Description:  "Updated " + change.field,
				OldValue:     change.old,
				NewValue:     change.new,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.mapTicketErr(err, ticketID)
	}
	return ticket, nil
}

// ChangeStatus applies the transition side effects and always logs exactly
// one status_changed activity, even when the status did not change. That
// asymmetry with Update is deliberate: status changes are operator actions
// worth auditing unconditionally.
func (s *TicketService) ChangeStatus(ctx context.Context, ticketID int64, newStatus domain.TicketStatus, actorID int64) (*domain.Ticket, error) {
	var (
		ticket    *domain.Ticket
		oldStatus domain.TicketStatus
	)
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		tickets := s.tickets.WithTx(tx)

		var err error
		ticket, err = tickets.GetByID(ctx, ticketID)
		if err != nil {
			return err
		}
		oldStatus = domain.ApplyStatus(ticket, newStatus, s.now())
		if err := tickets.Update(ctx, ticket); err != nil {
			return err
		}
		return s.activities.WithTx(tx).Create(ctx, &domain.TicketActivity{
			TicketID:     ticket.ID,
			UserID:       &actorID,
			ActivityType: domain.ActivityStatusChanged,
			Description:  fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus),
			OldValue:     strPtr(string(oldStatus)),
			NewValue:     strPtr(string(newStatus)),
		})
	})
	if err != nil {
		return nil, s.mapTicketErr(err, ticketID)
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketStatusChanged,
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Actor:        userActor(actorID),
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
		},
	})
	return ticket, nil
}

// Assign sets the assignee; an open ticket advances to in_progress, any
// other status stays put. Logs exactly one `assigned` activity.
func (s *TicketService) Assign(ctx context.Context, ticketID, assigneeID, actorID int64) (*domain.Ticket, error) {
	var ticket *domain.Ticket
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		tickets := s.tickets.WithTx(tx)

		var err error
		ticket, err = tickets.GetByID(ctx, ticketID)
		if err != nil {
			return err
		}
		oldAssignee, _ := domain.ApplyAssignment(ticket, assigneeID)
		if err := tickets.Update(ctx, ticket); err != nil {
			return err
		}
		var oldValue *string
		if oldAssignee != nil {
			oldValue = strPtr(strconv.FormatInt(*oldAssignee, 10))
		}
		return s.activities.WithTx(tx).Create(ctx, &domain.TicketActivity{
			TicketID:     ticket.ID,
			UserID:       &actorID,
			ActivityType: domain.ActivityAssigned,
			Description:  fmt.Sprintf("Ticket assigned to user %d", assigneeID),
			OldValue:     oldValue,
			NewValue:     strPtr(strconv.FormatInt(assigneeID, 10)),
		})
	})
	if err != nil {
		return nil, s.mapTicketErr(err, ticketID)
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketAssigned,
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Actor:        userActor(actorID),
		Payload:      events.TicketAssignedPayload{AssignedToID: assigneeID},
	})
	return ticket, nil
}

// AddComment appends a comment activity; the ticket row itself is not
// touched.
func (s *TicketService) AddComment(ctx context.Context, ticketID int64, comment string, actorID int64) (*domain.TicketActivity, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, s.mapTicketErr(err, ticketID)
	}

	activity := &domain.TicketActivity{
		TicketID:     ticket.ID,
		UserID:       &actorID,
		ActivityType: domain.ActivityComment,
		Description:  comment,
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketCommentAdded,
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Actor:        userActor(actorID),
		Payload:      events.TicketCommentAddedPayload{Preview: stringPreview(comment, 120)},
	})
	return activity, nil
}

// ListActivities returns a ticket's audit trail, newest first. A limit of
// 0 returns everything.
func (s *TicketService) ListActivities(ctx context.Context, ticketID int64, limit, offset int) ([]domain.TicketActivity, error) {
	if _, err := s.tickets.GetByID(ctx, ticketID); err != nil {
		return nil, s.mapTicketErr(err, ticketID)
	}
	activities, err := s.activities.ListByTicket(ctx, ticketID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return activities, nil
}

// Delete soft-deletes: the ticket is cancelled, the row and its activities
// remain.
func (s *TicketService) Delete(ctx context.Context, ticketID int64) error {
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		tickets := s.tickets.WithTx(tx)
		ticket, err := tickets.GetByID(ctx, ticketID)
		if err != nil {
			return err
		}
		ticket.Status = domain.TicketStatusCancelled
		return tickets.Update(ctx, ticket)
	})
	if err != nil {
		return s.mapTicketErr(err, ticketID)
	}
	return nil
}

// Reconcile merges an AI classification into the ticket: category and
// priority are overwritten last-writer-wins, the ai_classification label
// and confidence are set, and the SLA deadline is recomputed from the new
// priority. The priority overwrite is logged as a system priority_changed
// activity so the audit trail stays complete.
func (s *TicketService) Reconcile(ctx context.Context, ticketID int64, result classifier.Result) (*domain.Ticket, error) {
	now := s.now()
	deadline, err := s.sla.Deadline(ctx, result.Priority, now)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	var (
		ticket      *domain.Ticket
		oldPriority domain.TicketPriority
	)
	err = s.db.WithTx(ctx, func(tx pgx.Tx) error {
		tickets := s.tickets.WithTx(tx)

		var err error
		ticket, err = tickets.GetByID(ctx, ticketID)
		if err != nil {
			return err
		}
		oldPriority = ticket.Priority
		label := fmt.Sprintf("%s_%s", result.Category, result.Priority)
		confidence := result.Confidence
		ticket.Category = result.Category
		ticket.Priority = result.Priority
		ticket.AIClassification = &label
		ticket.AIConfidence = &confidence
		ticket.SLADeadline = deadline
		if err := tickets.Update(ctx, ticket); err != nil {
			return err
		}
		return s.activities.WithTx(tx).Create(ctx, &domain.TicketActivity{
			TicketID:     ticket.ID,
			UserID:       nil, // system actor
			ActivityType: domain.ActivityPriorityChanged,
			Description:  fmt.Sprintf("Priority set to %s by AI classification (%.1f confidence)", result.Priority, result.Confidence),
			OldValue:     strPtr(string(oldPriority)),
			NewValue:     strPtr(string(result.Priority)),
		})
	})
	if err != nil {
		return nil, s.mapTicketErr(err, ticketID)
	}

	confidence := result.Confidence
	s.publishEvent(ctx, events.Event{
		Type:         events.EventTicketPriorityChanged,
		TicketID:     ticket.ID,
		TicketNumber: ticket.TicketNumber,
		Actor:        events.Actor{},
		Payload: events.TicketPriorityChangedPayload{
			OldPriority: oldPriority,
			NewPriority: ticket.Priority,
			Confidence:  &confidence,
		},
	})
	return ticket, nil
}

type fieldChange struct {
	field string
	old   *string
	new   *string
}

func collectChanges(ticket *domain.Ticket, input UpdateTicketInput) []fieldChange {
	var changes []fieldChange

	if input.Title != nil && *input.Title != ticket.Title {
		changes = append(changes, fieldChange{"title", strPtr(ticket.Title), input.Title})
		ticket.Title = *input.Title
	}
	if input.Description != nil && *input.Description != ticket.Description {
		changes = append(changes, fieldChange{"description", strPtr(ticket.Description), input.Description})
		ticket.Description = *input.Description
	}
	if input.Category != nil && *input.Category != ticket.Category {
		changes = append(changes, fieldChange{"category", strPtr(string(ticket.Category)), strPtr(string(*input.Category))})
		ticket.Category = *input.Category
	}
	if input.Priority != nil && *input.Priority != ticket.Priority {
		changes = append(changes, fieldChange{"priority", strPtr(string(ticket.Priority)), strPtr(string(*input.Priority))})
		ticket.Priority = *input.Priority
	}
	if input.Status != nil && *input.Status != ticket.Status {
		changes = append(changes, fieldChange{"status", strPtr(string(ticket.Status)), strPtr(string(*input.Status))})
		ticket.Status = *input.Status
	}
	if input.AssignedToID != nil && (ticket.AssignedToID == nil || *ticket.AssignedToID != *input.AssignedToID) {
		var old *string
		if ticket.AssignedToID != nil {
			old = strPtr(strconv.FormatInt(*ticket.AssignedToID, 10))
		}
		changes = append(changes, fieldChange{"assigned_to_id", old, strPtr(strconv.FormatInt(*input.AssignedToID, 10))})
		assignee := *input.AssignedToID
		ticket.AssignedToID = &assignee
	}
	return changes
}

// isRetryableConflict reports whether the error is a unique violation or a
// serialization failure, both of which mean "re-derive the sequence and
// try again".
func isRetryableConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" || pgErr.Code == "40001"
	}
	return false
}

func (s *TicketService) mapTicketErr(err error, ticketID int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return apperrors.MapError(err)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func userActor(userID int64) events.Actor {
	return events.Actor{UserID: &userID}
}

func strPtr(s string) *string {
	return &s
}

// stringPreview truncates to at most max runes, never splitting a
// multi-byte character.
func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
