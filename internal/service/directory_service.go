package service

import (
	"context"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// DirectoryService covers admin-managed catalogs: departments and the agent
// roster.
type DirectoryService struct {
	departments repository.DepartmentRepository
	users       repository.UserRepository
	rooms       *RoomService
	bcryptCost  int
}

// NewDirectoryService constructs the service.
func NewDirectoryService(cfg config.Config, departments repository.DepartmentRepository, users repository.UserRepository, rooms *RoomService) *DirectoryService {
	return &DirectoryService{
		departments: departments,
		users:       users,
		rooms:       rooms,
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

func requireAdmin(actor *domain.User) error {
	if actor == nil || actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// CreateDepartment creates a department tickets can be filed against.
func (s *DirectoryService) CreateDepartment(ctx context.Context, actor *domain.User, name, description string) (*domain.Department, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}

	existing, err := s.departments.GetByName(ctx, name)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if existing != nil {
		return nil, apperrors.NewConflict("department already exists", map[string]any{"name": name})
	}

	dept := &domain.Department{
		Name:        name,
		Description: description,
		IsActive:    true,
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	return dept, nil
}

// ListDepartments returns the catalog; callers of any role may read it.
func (s *DirectoryService) ListDepartments(ctx context.Context, includeInactive bool) ([]domain.Department, error) {
	return s.departments.List(ctx, includeInactive)
}

// CreateAgent onboards a new agent: account creation, the shared
// agents-room, and a 1:1 room with every existing agent.
func (s *DirectoryService) CreateAgent(ctx context.Context, actor *domain.User, input RegisterInput) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if input.FirstName == "" || input.LastName == "" || input.Email == "" {
		return nil, apperrors.NewValidationError("first name, last name, email required", nil)
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	hashed, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	agent := &domain.User{
		FirstName:            input.FirstName,
		LastName:             input.LastName,
		Email:                input.Email,
		PasswordHash:         hashed,
		Role:                 domain.RoleAgent,
		NotificationSettings: domain.DefaultNotificationSettings(),
	}
	if err := s.users.Create(ctx, agent); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.rooms.OnboardAgent(ctx, agent); err != nil {
		return nil, err
	}
	return agent, nil
}

// ListAgents returns the roster in assignment order.
func (s *DirectoryService) ListAgents(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.users.ListAgents(ctx)
}
