package service

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AssignmentService picks the next agent for a new ticket with a persistent
// round-robin cursor.
type AssignmentService struct {
	users    repository.UserRepository
	counters repository.CounterRepository
}

// NewAssignmentService creates the service.
func NewAssignmentService(users repository.UserRepository, counters repository.CounterRepository) *AssignmentService {
	return &AssignmentService{users: users, counters: counters}
}

// AssignNextAgent returns agents[counter mod N] over the roster sorted by
// creation time, then persists counter = (counter+1) mod N.
//
// The read and the write are separate statements and each wrap is reduced
// modulo the roster size current at that moment. Roster churn between the
// two can therefore skip or repeat an agent, and concurrent creations can
// read the same cursor value. Both behaviors match the source system and are
// pinned by the assignment tests.
func (s *AssignmentService) AssignNextAgent(ctx context.Context) (*domain.User, error) {
	agents, err := s.users.ListAgents(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(agents) == 0 {
		return nil, apperrors.NewNoAgentsAvailable()
	}

	value, err := s.counters.Get(ctx, domain.AgentRoundRobinKey)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	index := value % len(agents)
	agent := agents[index]

	next := (value + 1) % len(agents)
	if err := s.counters.Set(ctx, domain.AgentRoundRobinKey, next); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &agent, nil
}
