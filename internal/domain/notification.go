package domain

import "time"

// Notification is one per-recipient message produced by the fan-out. A nil
// UserID with IsAdminNotification set means an admin broadcast.
type Notification struct {
	ID                  string
	UserID              *string
	Title               string
	Content             string
	Type                string
	Priority            TicketPriority
	IsRead              bool
	IsAdminNotification bool
	Link                string
	CreatedAt           time.Time
}
