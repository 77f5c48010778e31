package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// NotificationService synthesizes per-recipient notifications from lifecycle
// events: the submitter gated on their preferences, the assigned agent gated
// the same way and additionally skipped when they are the actor, plus one
// ungated admin broadcast per event. Candidates are persisted concurrently;
// individual failures are logged and never reach the lifecycle caller.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	logger        *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(notifications repository.NotificationRepository, users repository.UserRepository, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		logger:        logger,
	}
}

// RegisterHandlers subscribes the fan-out to every lifecycle event.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketUpdated,
		events.EventTicketStatusChanged,
		events.EventTicketDeleted,
		events.EventTicketAttachmentAdded,
	} {
		dispatcher.Subscribe(eventType, n.handleLifecycleEvent)
	}
	dispatcher.Subscribe(events.EventTicketMessageAdded, n.handleMessageEvent)
}

func (n *NotificationService) handleLifecycleEvent(ctx context.Context, event events.Event) error {
	payload, ok := lifecyclePayload(event)
	if !ok {
		n.logger.Warn("unexpected event payload", zap.String("event_type", string(event.Type)))
		return nil
	}

	title, content := describe(event.Type, payload.Title)
	candidates := []*domain.Notification{
		n.adminBroadcast(event, title, content, payload.Priority),
	}

	// The submitter is notified of their own actions; only the assigned
	// agent is excused when acting.
	if id := payload.SubmitterID; id != "" && n.subscribed(ctx, id, statusUpdateGate) {
		candidates = append(candidates, n.forRecipient(id, event, title, content, payload.Priority))
	}
	if id := payload.AssigneeID; id != "" && id != event.ActorID && n.subscribed(ctx, id, statusUpdateGate) {
		candidates = append(candidates, n.forRecipient(id, event, title, content, payload.Priority))
	}

	n.persist(ctx, event, candidates)
	return nil
}

func (n *NotificationService) handleMessageEvent(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketMessageAddedPayload)
	if !ok {
		n.logger.Warn("unexpected event payload", zap.String("event_type", string(event.Type)))
		return nil
	}

	title := fmt.Sprintf("New response on %q", payload.Title)
	candidates := []*domain.Notification{
		n.adminBroadcast(event, title, payload.Preview, payload.Priority),
	}

	for _, recipientID := range payload.ParticipantIDs {
		if recipientID == event.ActorID {
			continue
		}
		if !n.subscribed(ctx, recipientID, newResponsesGate) {
			continue
		}
		candidates = append(candidates, n.forRecipient(recipientID, event, title, payload.Preview, payload.Priority))
	}

	n.persist(ctx, event, candidates)
	return nil
}

// persist writes all candidates concurrently; no write depends on another.
func (n *NotificationService) persist(ctx context.Context, event events.Event, candidates []*domain.Notification) {
	var wg sync.WaitGroup
	for _, candidate := range candidates {
		wg.Add(1)
		go func(notification *domain.Notification) {
			defer wg.Done()
			if err := n.notifications.Create(ctx, notification); err != nil {
				n.logger.Warn("notification write failed",
					zap.String("ticket_id", event.TicketID),
					zap.String("event_type", string(event.Type)),
					zap.Error(err))
			}
		}(candidate)
	}
	wg.Wait()
}

// ListForUser returns the caller's inbox: own notifications for users and
// agents, the broadcast stream for admins.
func (n *NotificationService) ListForUser(ctx context.Context, user *domain.User, limit, offset int) ([]domain.Notification, error) {
	if user.Role == domain.RoleAdmin {
		return n.notifications.ListAdmin(ctx, limit, offset)
	}
	return n.notifications.ListByRecipient(ctx, user.ID, limit, offset)
}

// MarkRead flips the read flag. The recipient or an admin may do so.
func (n *NotificationService) MarkRead(ctx context.Context, user *domain.User, id string) error {
	if err := n.authorize(ctx, user, id); err != nil {
		return err
	}
	return apperrors.MapError(n.notifications.MarkRead(ctx, id))
}

// Delete removes a notification for the recipient or an admin.
func (n *NotificationService) Delete(ctx context.Context, user *domain.User, id string) error {
	if err := n.authorize(ctx, user, id); err != nil {
		return err
	}
	return apperrors.MapError(n.notifications.Delete(ctx, id))
}

func (n *NotificationService) authorize(ctx context.Context, user *domain.User, id string) error {
	notification, err := n.notifications.GetByID(ctx, id)
	if err != nil {
		return apperrors.NewNotFound("notification", map[string]any{"notification_id": id})
	}
	if user.Role == domain.RoleAdmin {
		return nil
	}
	if notification.UserID == nil || *notification.UserID != user.ID {
		return apperrors.NewNotFound("notification", map[string]any{"notification_id": id})
	}
	return nil
}

type preferenceGate func(domain.NotificationSettings) bool

func statusUpdateGate(settings domain.NotificationSettings) bool {
	return settings.Email.TicketStatusUpdates
}

func newResponsesGate(settings domain.NotificationSettings) bool {
	return settings.Email.NewResponses
}

// subscribed looks up the recipient's preferences; an unreadable user is
// treated as opted out.
func (n *NotificationService) subscribed(ctx context.Context, userID string, gate preferenceGate) bool {
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		n.logger.Warn("preference lookup failed", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	return gate(user.NotificationSettings)
}

func (n *NotificationService) forRecipient(recipientID string, event events.Event, title, content string, priority domain.TicketPriority) *domain.Notification {
	id := recipientID
	return &domain.Notification{
		UserID:   &id,
		Title:    title,
		Content:  content,
		Type:     string(event.Type),
		Priority: priority,
		Link:     "/tickets/" + event.TicketID,
	}
}

func (n *NotificationService) adminBroadcast(event events.Event, title, content string, priority domain.TicketPriority) *domain.Notification {
	return &domain.Notification{
		Title:               title,
		Content:             content,
		Type:                string(event.Type),
		Priority:            priority,
		IsAdminNotification: true,
		Link:                "/tickets/" + event.TicketID,
	}
}

func lifecyclePayload(event events.Event) (events.TicketEventPayload, bool) {
	switch payload := event.Payload.(type) {
	case events.TicketEventPayload:
		return payload, true
	case events.TicketStatusChangedPayload:
		return payload.TicketEventPayload, true
	case events.TicketAttachmentAddedPayload:
		return payload.TicketEventPayload, true
	}
	return events.TicketEventPayload{}, false
}

func describe(eventType events.EventType, title string) (string, string) {
	switch eventType {
	case events.EventTicketCreated:
		return fmt.Sprintf("Ticket %q created", title), "A new ticket was filed and assigned."
	case events.EventTicketUpdated:
		return fmt.Sprintf("Ticket %q updated", title), "Ticket details were changed."
	case events.EventTicketStatusChanged:
		return fmt.Sprintf("Ticket %q status changed", title), "The ticket moved to a new status."
	case events.EventTicketDeleted:
		return fmt.Sprintf("Ticket %q deleted", title), "The ticket was removed by its submitter."
	case events.EventTicketAttachmentAdded:
		return fmt.Sprintf("New attachment on %q", title), "A file was attached to the ticket."
	}
	return string(eventType), ""
}
