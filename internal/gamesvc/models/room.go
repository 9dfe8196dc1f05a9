package models

import "time"

// Room statuses, owner driven. Any status may follow any other.
const (
	RoomCreated  = "created"
	RoomLive     = "live"
	RoomFinished = "finished"
	RoomClosed   = "closed"
)

type Room struct {
	ID         int64     `json:"id"`          // Primary key
	GameID     int64     `json:"game_id"`     // Game template this room plays
	OwnerID    int64     `json:"owner_id"`    // Creator (authenticated user id)
	InviteCode string    `json:"invite_code"` // 4-digit numeric, unique among active rooms
	Status     string    `json:"status"`      // 'created', 'live', 'finished', 'closed'
	CreatedAt  time.Time `json:"created_at"`
	ExpiredAt  time.Time `json:"expired_at"` // past this instant the room reads as not found
}

// Usable reports whether the room is admitting room-scoped operations:
// unexpired and in one of the wanted statuses.
func (r *Room) Usable(now time.Time, statuses ...string) bool {
	if !r.ExpiredAt.After(now) {
		return false
	}
	for _, s := range statuses {
		if r.Status == s {
			return true
		}
	}
	return false
}
