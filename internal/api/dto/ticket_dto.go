package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Department  string                `json:"department"`
	Category    string                `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Equipment   *domain.Equipment     `json:"equipment,omitempty"`
}

// UpdateTicketRequest payload; absent fields stay unchanged.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Department  *string                `json:"department"`
	Category    *string                `json:"category"`
	Priority    *domain.TicketPriority `json:"priority"`
	Equipment   *domain.Equipment      `json:"equipment,omitempty"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Content string `json:"content"`
}

// AddAttachmentRequest payload.
type AddAttachmentRequest struct {
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	SizeBytes int64  `json:"size_bytes"`
}

// CreateFeedbackRequest payload.
type CreateFeedbackRequest struct {
	Rating  domain.FeedbackRating `json:"rating"`
	Comment string                `json:"comment"`
}

// TicketSummary response.
type TicketSummary struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	Department string                `json:"department"`
	Category   string                `json:"category"`
	Status     domain.TicketStatus   `json:"status"`
	Priority   domain.TicketPriority `json:"priority"`
	Submitter  domain.UserSnapshot   `json:"submitter"`
	AssignedTo domain.UserSnapshot   `json:"assigned_to"`
	RoomID     string                `json:"room_id"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	TicketSummary
	Description  string                 `json:"description"`
	Equipment    *domain.Equipment      `json:"equipment,omitempty"`
	ActivityLog  []domain.ActivityEntry `json:"activity_log"`
	Attachments  []domain.Attachment    `json:"attachments"`
	Messages     []domain.Message       `json:"messages"`
	Participants []domain.UserSnapshot  `json:"participants"`
}

// AuditResponse is one trail entry.
type AuditResponse struct {
	ID            string             `json:"id"`
	Action        domain.AuditAction `json:"action"`
	FieldChanged  string             `json:"field_changed,omitempty"`
	PreviousValue string             `json:"previous_value,omitempty"`
	NewValue      string             `json:"new_value,omitempty"`
	ActorID       string             `json:"actor_id"`
	ActorName     string             `json:"actor_name"`
	CreatedAt     time.Time          `json:"created_at"`
}

// FeedbackResponse payload.
type FeedbackResponse struct {
	ID        string                `json:"id"`
	TicketID  string                `json:"ticket_id"`
	AgentID   string                `json:"agent_id"`
	Rating    domain.FeedbackRating `json:"rating"`
	Comment   string                `json:"comment,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}
