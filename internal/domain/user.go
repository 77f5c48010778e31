package domain

import "time"

// Role enumerates the three principal kinds in the helpdesk.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// NotificationChannel holds per-event opt-in flags for one delivery channel.
type NotificationChannel struct {
	TicketStatusUpdates bool `json:"ticketStatusUpdates"`
	NewResponses        bool `json:"newResponses"`
}

// NotificationSettings gates which notifications a user receives.
type NotificationSettings struct {
	Email NotificationChannel `json:"email"`
}

// DefaultNotificationSettings opts new accounts into everything.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Email: NotificationChannel{
			TicketStatusUpdates: true,
			NewResponses:        true,
		},
	}
}

// User is the single principal aggregate; role distinguishes submitters,
// agents and admins. Role is immutable except by an admin.
type User struct {
	ID                   string
	FirstName            string
	LastName             string
	Email                string
	PasswordHash         string
	Role                 Role
	NotificationSettings NotificationSettings
	RoomIDs              []string
	LastLogin            *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Snapshot returns the denormalized identity embedded into tickets. The copy
// is taken at write time and never refreshed.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		UserID:    u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
