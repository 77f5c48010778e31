package realtime

import "context"

// MessageHandler receives payloads published on a subscribed topic.
type MessageHandler func(topic string, payload []byte)

// Channel is the publish/subscribe boundary the ticket lifecycle pushes chat
// messages through. Topics are ticket-scoped ("ticket-<id>") or room-scoped
// ("<roomId>"). Delivery is at most once; missed messages are only
// recoverable from the ticket's stored thread.
type Channel interface {
	Publish(ctx context.Context, topic string, payload any) error
	Subscribe(ctx context.Context, topic string, handler MessageHandler) error
	Close() error
}

// TicketTopic returns the channel topic for one ticket's thread.
func TicketTopic(ticketID string) string {
	return "ticket-" + ticketID
}
