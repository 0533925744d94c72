// Package notify pushes ticket lifecycle events to Slack.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/fixora/helpdesk/internal/config"
	"github.com/fixora/helpdesk/internal/events"
)

const postTimeout = 10 * time.Second

// SlackNotifier posts lifecycle notifications to a single channel. With no
// bot token configured it stays registered but does nothing.
type SlackNotifier struct {
	client  *slack.Client
	channel string
	logger  *zap.Logger
}

// NewSlackNotifier builds a notifier from configuration.
func NewSlackNotifier(cfg config.SlackConfig, logger *zap.Logger) *SlackNotifier {
	n := &SlackNotifier{channel: cfg.Channel, logger: logger}
	if cfg.BotToken != "" {
		n.client = slack.New(cfg.BotToken)
	}
	return n
}

// Enabled reports whether a bot token was configured.
func (n *SlackNotifier) Enabled() bool {
	return n.client != nil
}

// RegisterHandlers subscribes the notifier to every lifecycle event type.
func (n *SlackNotifier) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketCreated, n.onTicketCreated)
	dispatcher.Subscribe(events.EventTicketStatusChanged, n.onStatusChanged)
	dispatcher.Subscribe(events.EventTicketAssigned, n.onAssigned)
	dispatcher.Subscribe(events.EventTicketCommentAdded, n.onCommentAdded)
	dispatcher.Subscribe(events.EventTicketPriorityChanged, n.onPriorityChanged)
}

func (n *SlackNotifier) onTicketCreated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	n.post(fmt.Sprintf(":ticket: New ticket %s (%s/%s): %s",
		event.TicketNumber, payload.Category, payload.Priority, payload.Title))
	return nil
}

func (n *SlackNotifier) onStatusChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	n.post(fmt.Sprintf(":arrows_counterclockwise: %s moved from %s to %s",
		event.TicketNumber, payload.OldStatus, payload.NewStatus))
	return nil
}

func (n *SlackNotifier) onAssigned(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketAssignedPayload)
	if !ok {
		return nil
	}
	n.post(fmt.Sprintf(":bust_in_silhouette: %s assigned to user %d",
		event.TicketNumber, payload.AssignedToID))
	return nil
}

func (n *SlackNotifier) onCommentAdded(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCommentAddedPayload)
	if !ok {
		return nil
	}
	n.post(fmt.Sprintf(":speech_balloon: New comment on %s: %s",
		event.TicketNumber, payload.Preview))
	return nil
}

func (n *SlackNotifier) onPriorityChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketPriorityChangedPayload)
	if !ok {
		return nil
	}
	msg := fmt.Sprintf(":robot_face: %s priority changed from %s to %s",
		event.TicketNumber, payload.OldPriority, payload.NewPriority)
	if payload.Confidence != nil {
		msg += fmt.Sprintf(" (%.1f confidence)", *payload.Confidence)
	}
	n.post(msg)
	return nil
}

// post delivers fire-and-forget so the publishing request never waits on
// Slack.
func (n *SlackNotifier) post(text string) {
	if n.client == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), postTimeout)
		defer cancel()
		_, _, err := n.client.PostMessageContext(ctx, n.channel,
			slack.MsgOptionText(text, false))
		if err != nil {
			n.logger.Warn("slack notification failed",
				zap.String("channel", n.channel), zap.Error(err))
		}
	}()
}
