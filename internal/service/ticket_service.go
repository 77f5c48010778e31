package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/realtime"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// TicketService coordinates the ticket lifecycle: creation with round-robin
// assignment and room provisioning, owner-gated updates and deletion,
// agent-gated status changes, attachments, and the chat thread.
type TicketService struct {
	tickets     repository.TicketRepository
	departments repository.DepartmentRepository
	rooms       repository.RoomRepository
	assignment  *AssignmentService
	provisioner *RoomService
	audit       *AuditService
	dispatcher  events.Dispatcher
	channel     realtime.Channel
	logger      *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	DepartmentRepo repository.DepartmentRepository
	RoomRepo       repository.RoomRepository
	Assignment     *AssignmentService
	Provisioner    *RoomService
	Audit          *AuditService
	Dispatcher     events.Dispatcher
	Channel        realtime.Channel
	Logger         *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Department  string
	Category    string
	Priority    domain.TicketPriority
	Equipment   *domain.Equipment
}

// TicketUpdateInput carries the submitter-editable fields; nil means leave
// unchanged.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Department  *string
	Category    *string
	Priority    *domain.TicketPriority
	Equipment   *domain.Equipment
}

// AttachmentInput defines attachment metadata.
type AttachmentInput struct {
	FileName  string
	MimeType  string
	SizeBytes int64
}

// TicketListFilter describes listing parameters.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Limit      int
	Offset     int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		departments: deps.DepartmentRepo,
		rooms:       deps.RoomRepo,
		assignment:  deps.Assignment,
		provisioner: deps.Provisioner,
		audit:       deps.Audit,
		dispatcher:  deps.Dispatcher,
		channel:     deps.Channel,
		logger:      deps.Logger,
	}
}

// CreateTicket validates input, assigns an agent, provisions the private
// room, persists the ticket, and emits the created event. The room is
// linked to the ticket by a follow-up write after the insert.
func (s *TicketService) CreateTicket(ctx context.Context, submitter *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if input.Title == "" || input.Category == "" || input.Description == "" || input.Department == "" {
		return nil, apperrors.NewValidationError("title, category, description, department required", nil)
	}

	dept, err := s.departments.GetByName(ctx, input.Department)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if dept == nil || !dept.IsActive {
		return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": input.Department})
	}

	agent, err := s.assignment.AssignNextAgent(ctx)
	if err != nil {
		return nil, err
	}

	room, err := s.provisioner.ProvisionTicketRoom(ctx, submitter, agent, input.Title)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ticket := &domain.Ticket{
		Title:       input.Title,
		Description: input.Description,
		Department:  input.Department,
		Category:    input.Category,
		Equipment:   input.Equipment,
		Status:      domain.TicketStatusPending,
		Priority:    input.Priority,
		Submitter:   submitter.Snapshot(),
		AssignedTo:  agent.Snapshot(),
		RoomID:      room.ID,
		ActivityLog: []domain.ActivityEntry{
			{Action: "created", Actor: submitter.ID, Timestamp: now},
			{Action: "assigned", Actor: submitter.ID, Next: agent.ID, Timestamp: now},
		},
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.rooms.SetTicket(ctx, room.ID, ticket.ID); err != nil {
		// The ticket row already exists; a dangling room with a nil ticket
		// reference is the documented failure shape here.
		s.logger.Warn("room link failed",
			zap.String("room_id", room.ID),
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
	}

	s.audit.Record(ctx, ticket.ID, domain.AuditCreated, submitter, "", "", "")
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  submitter.ID,
		Payload:  ticketPayload(ticket),
	})
	return ticket, nil
}

// UpdateTicket applies submitter edits. A ticket the caller does not own is
// reported identically to one that does not exist.
func (s *TicketService) UpdateTicket(ctx context.Context, submitter *domain.User, ticketID string, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.getOwned(ctx, submitter.ID, ticketID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		ticket.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.Department != nil {
		ticket.Department = *input.Department
	}
	if input.Category != nil {
		ticket.Category = *input.Category
	}
	if input.Priority != nil {
		ticket.Priority = *input.Priority
	}
	if input.Equipment != nil {
		ticket.Equipment = input.Equipment
	}
	ticket.ActivityLog = append(ticket.ActivityLog, domain.ActivityEntry{
		Action:    "updated",
		Actor:     submitter.ID,
		Timestamp: time.Now(),
	})

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, ticket.ID, domain.AuditUpdated, submitter, "", "", "")
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: ticket.ID,
		ActorID:  submitter.ID,
		Payload:  ticketPayload(ticket),
	})
	return ticket, nil
}

// UpdateStatus lets the assigned agent set any of the three status values;
// there is no enforced transition order.
func (s *TicketService) UpdateStatus(ctx context.Context, agent *domain.User, ticketID string, status domain.TicketStatus) (*domain.Ticket, error) {
	if !domain.ValidStatus(status) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": string(status)})
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil || ticket.AssignedTo.UserID != agent.ID {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}

	oldStatus := ticket.Status
	ticket.Status = status
	ticket.ActivityLog = append(ticket.ActivityLog, domain.ActivityEntry{
		Action:    "status_changed",
		Actor:     agent.ID,
		Previous:  string(oldStatus),
		Next:      string(status),
		Timestamp: time.Now(),
	})

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, ticket.ID, domain.AuditStatusChanged, agent, "status", string(oldStatus), string(status))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  agent.ID,
		Payload: events.TicketStatusChangedPayload{
			TicketEventPayload: ticketPayload(ticket),
			OldStatus:          oldStatus,
			NewStatus:          status,
		},
	})
	return ticket, nil
}

// DeleteTicket removes the ticket row. The room and the audit trail are
// deliberately retained.
func (s *TicketService) DeleteTicket(ctx context.Context, submitter *domain.User, ticketID string) error {
	ticket, err := s.getOwned(ctx, submitter.ID, ticketID)
	if err != nil {
		return err
	}

	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		return apperrors.MapError(err)
	}

	s.audit.Record(ctx, ticket.ID, domain.AuditDeleted, submitter, "", "", "")
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: ticket.ID,
		ActorID:  submitter.ID,
		Payload:  ticketPayload(ticket),
	})
	return nil
}

// AddAttachment appends attachment metadata; either party on the ticket may
// upload.
func (s *TicketService) AddAttachment(ctx context.Context, user *domain.User, ticketID string, input AttachmentInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil || (ticket.Submitter.UserID != user.ID && ticket.AssignedTo.UserID != user.ID) {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}

	now := time.Now()
	ticket.Attachments = append(ticket.Attachments, domain.Attachment{
		ID:        uuid.NewString(),
		FileName:  input.FileName,
		MimeType:  input.MimeType,
		SizeBytes: input.SizeBytes,
		Uploader:  user.ID,
		CreatedAt: now,
	})
	ticket.ActivityLog = append(ticket.ActivityLog, domain.ActivityEntry{
		Action:    "attachment_added",
		Actor:     user.ID,
		Next:      input.FileName,
		Timestamp: now,
	})

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.Record(ctx, ticket.ID, domain.AuditAttachmentAdded, user, "attachments", "", input.FileName)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketAttachmentAdded,
		TicketID: ticket.ID,
		ActorID:  user.ID,
		Payload: events.TicketAttachmentAddedPayload{
			TicketEventPayload: ticketPayload(ticket),
			FileName:           input.FileName,
		},
	})
	return ticket, nil
}

// PostMessage appends a chat message to the thread, pushes it on the
// realtime channel, and emits the message event. The caller must be the
// submitter, the assigned agent, or an existing participant.
func (s *TicketService) PostMessage(ctx context.Context, user *domain.User, ticketID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content required", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	if ticket.Submitter.UserID != user.ID && ticket.AssignedTo.UserID != user.ID && !ticket.IsParticipant(user.ID) {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}

	if !ticket.IsParticipant(user.ID) {
		ticket.Participants = append(ticket.Participants, user.Snapshot())
	}

	msg := domain.Message{
		ID:        uuid.NewString(),
		Sender:    user.Snapshot(),
		Content:   content,
		Timestamp: time.Now(),
	}
	ticket.Messages = append(ticket.Messages, msg)

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.channel.Publish(ctx, realtime.TicketTopic(ticket.ID), msg); err != nil {
		s.logger.Warn("realtime publish failed",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err))
	}

	s.audit.Record(ctx, ticket.ID, domain.AuditCommentAdded, user, "", "", "")

	participantIDs := make([]string, 0, len(ticket.Participants))
	for _, p := range ticket.Participants {
		if p.UserID != user.ID {
			participantIDs = append(participantIDs, p.UserID)
		}
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketMessageAdded,
		TicketID: ticket.ID,
		ActorID:  user.ID,
		Payload: events.TicketMessageAddedPayload{
			TicketEventPayload: ticketPayload(ticket),
			MessageID:          msg.ID,
			Preview:            preview(content, 120),
			ParticipantIDs:     participantIDs,
		},
	})
	return &msg, nil
}

// GetTicketForUser fetches a ticket ensuring ownership.
func (s *TicketService) GetTicketForUser(ctx context.Context, userID, ticketID string) (*domain.Ticket, error) {
	return s.getOwned(ctx, userID, ticketID)
}

// GetTicketForAgent fetches a ticket for the assigned agent or an admin.
func (s *TicketService) GetTicketForAgent(ctx context.Context, agent *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	if agent.Role != domain.RoleAdmin && ticket.AssignedTo.UserID != agent.ID {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return ticket, nil
}

// ListUserTickets returns paginated tickets for a submitter.
func (s *TicketService) ListUserTickets(ctx context.Context, userID string, filter TicketListFilter) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		SubmitterID: &userID,
		Statuses:    filter.Statuses,
		Priorities:  filter.Priorities,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
}

// ListAgentTickets returns paginated tickets assigned to an agent.
func (s *TicketService) ListAgentTickets(ctx context.Context, agentID string, filter TicketListFilter) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		AssigneeID: &agentID,
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// getOwned merges not-found and not-owner into one error so existence does
// not leak.
func (s *TicketService) getOwned(ctx context.Context, userID, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil || ticket.Submitter.UserID != userID {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return ticket, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func ticketPayload(ticket *domain.Ticket) events.TicketEventPayload {
	return events.TicketEventPayload{
		Title:       ticket.Title,
		Priority:    ticket.Priority,
		SubmitterID: ticket.Submitter.UserID,
		AssigneeID:  ticket.AssignedTo.UserID,
	}
}

// preview truncates to at most max runes, never splitting a multi-byte
// character.
func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
