package broadcast

import (
	"encoding/json"
	"fmt"

	"github.com/quizlive/quiz-services/internal/comm"
	"github.com/quizlive/quiz-services/internal/gamesvc/models"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// RoomSubjectPattern is the wildcard the socket service subscribes.
const RoomSubjectPattern = "room.*.events"

// RoomSubject is the per-room topic events are published on.
func RoomSubject(roomID int64) string {
	return fmt.Sprintf("room.%d.events", roomID)
}

// NatsPublisher pushes room events over NATS. Publish failures are logged
// and swallowed: the durable write already happened.
type NatsPublisher struct {
	Conn *nats.Conn
}

func NewNatsPublisher(conn *nats.Conn) *NatsPublisher {
	return &NatsPublisher{Conn: conn}
}

func (p *NatsPublisher) PlayersChanged(roomID int64, players []*models.Player) {
	p.publish(roomID, comm.EventPlayersChanged, comm.PlayersChangedData{Players: players})
}

func (p *NatsPublisher) RoomStatusChanged(roomID int64, status string) {
	p.publish(roomID, comm.EventRoomStatusChanged, comm.RoomStatusChangedData{RoomId: roomID, Status: status})
}

func (p *NatsPublisher) StandingsChanged(roomID int64, standings []*models.PlayerStanding) {
	p.publish(roomID, comm.EventStandingsChanged, comm.StandingsChangedData{Standings: standings})
}

func (p *NatsPublisher) QuestionAnsweredBy(roomID, questionID int64, playerIDs []int64) {
	p.publish(roomID, comm.EventQuestionAnsweredBy, comm.QuestionAnsweredByData{QuestionId: questionID, PlayerIds: playerIDs})
}

func (p *NatsPublisher) publish(roomID int64, eventType string, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Errorf("unable to marshal %s payload for room %d: %s", eventType, roomID, err)
		return
	}

	event := &comm.RoomEvent{
		Type:   eventType,
		RoomId: roomID,
		Data:   raw,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Errorf("unable to marshal room event %s: %s", eventType, err)
		return
	}

	if err := p.Conn.Publish(RoomSubject(roomID), payload); err != nil {
		log.Errorf("Error publishing %s to room %d: %s", eventType, roomID, err)
	}
}
