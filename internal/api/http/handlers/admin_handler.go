package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AdminHandler covers department and agent administration.
type AdminHandler struct {
	directory *service.DirectoryService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(directory *service.DirectoryService) *AdminHandler {
	return &AdminHandler{directory: directory}
}

// CreateDepartment POST /admin/departments.
func (h *AdminHandler) CreateDepartment(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateDepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	dept, err := h.directory.CreateDepartment(c.UserContext(), principal.User, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.DepartmentResponse{
		ID:          dept.ID,
		Name:        dept.Name,
		Description: dept.Description,
		IsActive:    dept.IsActive,
	}})
}

// ListDepartments GET /departments. Open to any authenticated caller so the
// submit form can populate its dropdown.
func (h *AdminHandler) ListDepartments(c *fiber.Ctx) error {
	includeInactive := c.QueryBool("include_inactive", false)
	depts, err := h.directory.ListDepartments(c.UserContext(), includeInactive)
	if err != nil {
		return err
	}

	items := make([]dto.DepartmentResponse, 0, len(depts))
	for _, dept := range depts {
		items = append(items, dto.DepartmentResponse{
			ID:          dept.ID,
			Name:        dept.Name,
			Description: dept.Description,
			IsActive:    dept.IsActive,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateAgent POST /admin/agents.
func (h *AdminHandler) CreateAgent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	agent, err := h.directory.CreateAgent(c.UserContext(), principal.User, service.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(agent)})
}

// ListAgents GET /admin/agents.
func (h *AdminHandler) ListAgents(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	agents, err := h.directory.ListAgents(c.UserContext(), principal.User)
	if err != nil {
		return err
	}

	items := make([]dto.UserResponse, 0, len(agents))
	for i := range agents {
		items = append(items, userResponse(&agents[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
