package comm

import (
	"encoding/json"

	"github.com/quizlive/quiz-services/internal/gamesvc/models"
)

// WSMessage is the frame exchanged with web clients over the socket service.
type WSMessage struct {
	Type     string          `json:"type"` // e.g. "join-room"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"`
}

// Room event types published on room.<id>.events.
const (
	EventPlayersChanged     = "players_changed"
	EventRoomStatusChanged  = "room_status_changed"
	EventStandingsChanged   = "standings_changed"
	EventQuestionAnsweredBy = "question_answered_by"
)

// RoomEvent is the envelope carried from the game service to every
// subscriber of a room, and relayed as-is to that room's sockets.
type RoomEvent struct {
	Type   string          `json:"type"`
	RoomId int64           `json:"room_id"`
	Data   json.RawMessage `json:"data"`
}

type PlayersChangedData struct {
	Players []*models.Player `json:"players"`
}

type RoomStatusChangedData struct {
	RoomId int64  `json:"room_id"`
	Status string `json:"status"`
}

type StandingsChangedData struct {
	Standings []*models.PlayerStanding `json:"standings"`
}

type QuestionAnsweredByData struct {
	QuestionId int64   `json:"question_id"`
	PlayerIds  []int64 `json:"player_ids"`
}

// JoinRoomData is the socket client's request to receive a room's events.
type JoinRoomData struct {
	RoomId int64 `json:"room_id"`
}
