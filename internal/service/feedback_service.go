package service

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// FeedbackService handles one-shot satisfaction ratings for resolved
// tickets.
type FeedbackService struct {
	feedback repository.FeedbackRepository
	tickets  repository.TicketRepository
}

// NewFeedbackService creates the service.
func NewFeedbackService(feedback repository.FeedbackRepository, tickets repository.TicketRepository) *FeedbackService {
	return &FeedbackService{feedback: feedback, tickets: tickets}
}

// CreateFeedback records a rating. Only the submitter may rate, only once,
// and only after the ticket reached resolved. Records are immutable and not
// deletable.
func (s *FeedbackService) CreateFeedback(ctx context.Context, submitter *domain.User, ticketID string, rating domain.FeedbackRating, comment string) (*domain.Feedback, error) {
	if !domain.ValidRating(rating) {
		return nil, apperrors.NewValidationError("invalid rating", map[string]any{"rating": string(rating)})
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil || ticket.Submitter.UserID != submitter.ID {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	if ticket.Status != domain.TicketStatusResolved {
		return nil, apperrors.NewValidationError("ticket is not resolved", map[string]any{"status": string(ticket.Status)})
	}

	existing, err := s.feedback.GetByTicketAndSubmitter(ctx, ticketID, submitter.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if existing != nil {
		return nil, apperrors.NewConflict("feedback already submitted", map[string]any{"ticket_id": ticketID})
	}

	fb := &domain.Feedback{
		TicketID:    ticket.ID,
		SubmitterID: submitter.ID,
		AgentID:     ticket.AssignedTo.UserID,
		Rating:      rating,
		Comment:     comment,
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		return nil, apperrors.MapError(err)
	}
	return fb, nil
}

// ListAgentFeedback returns ratings collected for one agent.
func (s *FeedbackService) ListAgentFeedback(ctx context.Context, agentID string, limit, offset int) ([]domain.Feedback, error) {
	return s.feedback.ListByAgent(ctx, agentID, limit, offset)
}
