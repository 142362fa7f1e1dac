package worker

import (
	"github.com/loongallday/pdeservice-spb-sub004/internal/service"
)

// StartNotificationWorker registers the event consumers that react to ticket
// activity: the notification fanout and the watcher auto-subscription.
func StartNotificationWorker(notifications *service.NotificationService, watchers *service.WatcherService) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if watchers != nil {
		watchers.RegisterHandlers()
	}
}
