package worker

import (
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/service"
)

// StartNotificationWorker subscribes the fan-out and the AMQP bridge to the
// dispatcher. Both are fire-and-forget relative to lifecycle operations.
func StartNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService, bridge *events.AMQPBridge) {
	if notifications != nil {
		notifications.RegisterHandlers(dispatcher)
	}
	bridge.Register(dispatcher)
}
