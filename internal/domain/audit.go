package domain

import "time"

// AuditAction tags the lifecycle event an audit record describes.
type AuditAction string

const (
	AuditCreated         AuditAction = "created"
	AuditUpdated         AuditAction = "updated"
	AuditStatusChanged   AuditAction = "status_changed"
	AuditAssigned        AuditAction = "assigned"
	AuditDeleted         AuditAction = "deleted"
	AuditCommentAdded    AuditAction = "comment_added"
	AuditAttachmentAdded AuditAction = "attachment_added"
)

// Audit is an immutable append-only record of one ticket lifecycle event.
// Records survive deletion of the parent ticket.
type Audit struct {
	ID            string
	TicketID      string
	Action        AuditAction
	FieldChanged  string
	PreviousValue string
	NewValue      string
	ActorID       string
	ActorName     string
	CreatedAt     time.Time
}
