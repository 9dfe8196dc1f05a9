package models

import "time"

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleGuest     = "guest"
)

type Player struct {
	ID          int64     `json:"id"`      // Primary key
	RoomID      int64     `json:"room_id"` // FK to rooms(id)
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Role        string    `json:"role"`        // 'admin', 'moderator', 'guest'
	IsApproved  bool      `json:"is_approved"` // admission workflow flag
	CreatedAt   time.Time `json:"created_at"`
}
