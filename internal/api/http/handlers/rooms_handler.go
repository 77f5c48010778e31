package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// RoomsHandler exposes the caller's room membership.
type RoomsHandler struct {
	rooms *service.RoomService
}

// NewRoomsHandler constructs handler.
func NewRoomsHandler(rooms *service.RoomService) *RoomsHandler {
	return &RoomsHandler{rooms: rooms}
}

// ListRooms GET /rooms.
func (h *RoomsHandler) ListRooms(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	rooms, err := h.rooms.ListRooms(c.UserContext(), principal.User)
	if err != nil {
		return err
	}

	items := make([]dto.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		items = append(items, dto.RoomResponse{
			ID:        room.ID,
			Name:      room.Name,
			MemberIDs: room.MemberIDs,
			IsPublic:  room.IsPublic,
			TicketID:  room.TicketID,
			CreatedAt: room.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
