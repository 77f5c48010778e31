package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// RoomService provisions chat rooms: private ticket rooms, the public
// agents-room singleton, and 1:1 agent pair rooms.
type RoomService struct {
	rooms repository.RoomRepository
	users repository.UserRepository
}

// NewRoomService creates the service.
func NewRoomService(rooms repository.RoomRepository, users repository.UserRepository) *RoomService {
	return &RoomService{rooms: rooms, users: users}
}

// ProvisionTicketRoom creates the private room for a ticket before the
// ticket itself is persisted. The room starts with a nil ticket reference;
// the caller links it once the ticket row exists. Any failure here aborts
// ticket creation.
func (s *RoomService) ProvisionTicketRoom(ctx context.Context, submitter, agent *domain.User, title string) (*domain.Room, error) {
	room := &domain.Room{
		Name:      fmt.Sprintf("ticket: %s", title),
		MemberIDs: []string{submitter.ID, agent.ID},
		IsPublic:  false,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.users.AddRoom(ctx, submitter.ID, room.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.users.AddRoom(ctx, agent.ID, room.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	return room, nil
}

// EnsureAgentsRoom lazily creates the public agents-room singleton.
func (s *RoomService) EnsureAgentsRoom(ctx context.Context) (*domain.Room, error) {
	existing, err := s.rooms.GetByName(ctx, domain.AgentsRoomName)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	room := &domain.Room{
		Name:      domain.AgentsRoomName,
		MemberIDs: []string{},
		IsPublic:  true,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, apperrors.MapError(err)
	}
	return room, nil
}

// EnsureAgentPairRoom idempotently creates the 1:1 room for two agents. The
// membership check is set equality: cardinality two with both present.
func (s *RoomService) EnsureAgentPairRoom(ctx context.Context, a, b *domain.User) (*domain.Room, error) {
	existing, err := s.rooms.FindPairRoom(ctx, a.ID, b.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if existing != nil {
		return existing, nil
	}

	room := &domain.Room{
		Name:      fmt.Sprintf("%s & %s", a.FirstName, b.FirstName),
		MemberIDs: []string{a.ID, b.ID},
		IsPublic:  false,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.users.AddRoom(ctx, a.ID, room.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.users.AddRoom(ctx, b.ID, room.ID); err != nil {
		return nil, apperrors.MapError(err)
	}
	return room, nil
}

// OnboardAgent pairs a newly created agent with every existing agent and
// makes sure the shared agents-room exists.
func (s *RoomService) OnboardAgent(ctx context.Context, agent *domain.User) error {
	if _, err := s.EnsureAgentsRoom(ctx); err != nil {
		return err
	}

	agents, err := s.users.ListAgents(ctx)
	if err != nil {
		return apperrors.MapError(err)
	}
	for i := range agents {
		other := &agents[i]
		if other.ID == agent.ID {
			continue
		}
		if _, err := s.EnsureAgentPairRoom(ctx, agent, other); err != nil {
			return err
		}
	}
	return nil
}

// ListRooms returns the rooms visible to a user; agents also get the shared
// agents-room created on first access.
func (s *RoomService) ListRooms(ctx context.Context, user *domain.User) ([]domain.Room, error) {
	if user.Role == domain.RoleAgent {
		if _, err := s.EnsureAgentsRoom(ctx); err != nil {
			return nil, err
		}
	}
	rooms, err := s.rooms.ListByMember(ctx, user.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return rooms, nil
}
