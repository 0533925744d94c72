package worker

import (
	"github.com/fixora/helpdesk/internal/events"
	"github.com/fixora/helpdesk/internal/notify"
)

// StartNotificationWorker subscribes the Slack notifier to lifecycle events.
func StartNotificationWorker(notifier *notify.SlackNotifier, dispatcher events.Dispatcher) {
	if notifier == nil || dispatcher == nil {
		return
	}
	notifier.RegisterHandlers(dispatcher)
}
