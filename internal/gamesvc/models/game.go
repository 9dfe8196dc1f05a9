package models

import "time"

// Game is a quiz template authored outside this service. The game service
// only reads templates; see internal/gamesvc/templates.
type Game struct {
	ID        int64     `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	OwnerID   int64     `json:"owner_id" bson:"owner_id"`
	PlayerCap int       `json:"player_cap" bson:"player_cap"` // approved seats allowed in a room
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
