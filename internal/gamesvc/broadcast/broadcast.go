// Package broadcast is the room-scoped publish side of the live update
// fabric. Services publish through the Publisher interface; delivery is
// fire-and-forget and never fails the write that triggered it.
package broadcast

import (
	"github.com/quizlive/quiz-services/internal/gamesvc/models"
)

type Publisher interface {
	PlayersChanged(roomID int64, players []*models.Player)
	RoomStatusChanged(roomID int64, status string)
	StandingsChanged(roomID int64, standings []*models.PlayerStanding)
	QuestionAnsweredBy(roomID, questionID int64, playerIDs []int64)
}
