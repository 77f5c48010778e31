package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets. There is no enforced
// transition graph; the assigned agent may set any of the three values.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
)

// ValidStatus reports whether s is one of the three lifecycle states.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusPending, TicketStatusInProgress, TicketStatusResolved:
		return true
	}
	return false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// UserSnapshot is a denormalized identity copied into tickets at write time.
type UserSnapshot struct {
	UserID    string `json:"userId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Equipment optionally describes the hardware a ticket is about.
type Equipment struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ActivityEntry is one line of the ticket's embedded activity log.
type ActivityEntry struct {
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Previous  string    `json:"previous,omitempty"`
	Next      string    `json:"next,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Attachment stores file metadata only; blob storage is external.
type Attachment struct {
	ID        string    `json:"id"`
	FileName  string    `json:"fileName"`
	MimeType  string    `json:"mimeType"`
	SizeBytes int64     `json:"sizeBytes"`
	Uploader  string    `json:"uploader"`
	CreatedAt time.Time `json:"createdAt"`
}

// Message is one chat entry embedded in the ticket thread.
type Message struct {
	ID        string       `json:"id"`
	Sender    UserSnapshot `json:"sender"`
	Content   string       `json:"content"`
	Timestamp time.Time    `json:"timestamp"`
}

// Ticket is the central aggregate.
type Ticket struct {
	ID          string
	Title       string
	Description string
	Department  string
	Category    string
	Equipment   *Equipment
	Status      TicketStatus
	Priority    TicketPriority
	Submitter   UserSnapshot
	AssignedTo  UserSnapshot
	RoomID      string
	ActivityLog []ActivityEntry
	Attachments []Attachment
	Messages    []Message
	// Participants holds a snapshot of everyone who has posted a message.
	Participants []UserSnapshot
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsParticipant reports whether userID appears in the participant list.
func (t *Ticket) IsParticipant(userID string) bool {
	for _, p := range t.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
