package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
)

// AuditService appends immutable lifecycle records. Writes are best effort:
// a failed append is logged and never aborts the triggering operation.
type AuditService struct {
	audits repository.AuditRepository
	logger *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(audits repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{audits: audits, logger: logger}
}

// Record appends one audit row for a ticket lifecycle event.
func (s *AuditService) Record(ctx context.Context, ticketID string, action domain.AuditAction, actor *domain.User, fieldChanged, previous, next string) {
	entry := &domain.Audit{
		TicketID:      ticketID,
		Action:        action,
		FieldChanged:  fieldChanged,
		PreviousValue: previous,
		NewValue:      next,
	}
	if actor != nil {
		entry.ActorID = actor.ID
		entry.ActorName = actor.FirstName + " " + actor.LastName
	}

	if err := s.audits.Create(ctx, entry); err != nil {
		s.logger.Warn("audit append failed",
			zap.String("ticket_id", ticketID),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

// ListByTicket returns the trail for one ticket, oldest first.
func (s *AuditService) ListByTicket(ctx context.Context, ticketID string) ([]domain.Audit, error) {
	return s.audits.ListByTicket(ctx, ticketID)
}
