package events

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated         EventType = "ticket_created"
	EventTicketUpdated         EventType = "ticket_updated"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventTicketDeleted         EventType = "ticket_deleted"
	EventTicketAttachmentAdded EventType = "ticket_attachment_added"
	EventTicketMessageAdded    EventType = "ticket_message_added"
)

// Event represents a domain event emitted by the ticket lifecycle.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketEventPayload carries the ticket context the fan-out needs without
// re-reading the ticket: title, priority, and the two denormalized parties.
type TicketEventPayload struct {
	Title       string                `json:"title"`
	Priority    domain.TicketPriority `json:"priority"`
	SubmitterID string                `json:"submitter_id"`
	AssigneeID  string                `json:"assignee_id"`
}

// TicketStatusChangedPayload extends the base payload with the transition.
type TicketStatusChangedPayload struct {
	TicketEventPayload
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketMessageAddedPayload carries the posted message and the participant
// set to notify.
type TicketMessageAddedPayload struct {
	TicketEventPayload
	MessageID      string   `json:"message_id"`
	Preview        string   `json:"preview"`
	ParticipantIDs []string `json:"participant_ids"`
}

// TicketAttachmentAddedPayload carries attachment metadata.
type TicketAttachmentAddedPayload struct {
	TicketEventPayload
	FileName string `json:"file_name"`
}
