package models

// PlayerStanding is the derived per-player aggregate within a room.
// It is recomputed on demand from answer attempts, never stored.
type PlayerStanding struct {
	PlayerID    int64  `json:"player_id"`
	DisplayName string `json:"display_name"`
	Attempts    int    `json:"attempts"`
	Correct     int    `json:"correct"`
	Points      int    `json:"points"`
}
