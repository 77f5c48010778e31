package domain

import "time"

// AgentsRoomName is the singleton public room shared by all agents.
const AgentsRoomName = "agents-room"

// Room is a named chat room. Three kinds exist by convention, not by stored
// type: the public agents-room singleton, 1:1 agent pair rooms, and private
// ticket rooms holding exactly the submitter and the assigned agent.
type Room struct {
	ID        string
	Name      string
	MemberIDs []string
	IsPublic  bool
	// TicketID stays nil until the owning ticket row exists; it is linked by
	// a follow-up write after ticket creation.
	TicketID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasMember reports whether userID belongs to the room.
func (r *Room) HasMember(userID string) bool {
	for _, id := range r.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
