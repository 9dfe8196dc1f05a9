package broadcast

import (
	"encoding/json"
	"sync"

	"github.com/quizlive/quiz-services/internal/comm"
	"github.com/quizlive/quiz-services/internal/gamesvc/models"

	log "github.com/sirupsen/logrus"
)

// Bus is an in-process Publisher keyed by room id, for single-binary
// deployments and tests. Slow subscribers are dropped, never waited on.
type Bus struct {
	mu   sync.RWMutex
	subs map[int64]map[chan comm.RoomEvent]struct{}
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[int64]map[chan comm.RoomEvent]struct{}),
	}
}

// Subscribe returns a channel receiving the room's events.
func (b *Bus) Subscribe(roomID int64) chan comm.RoomEvent {
	ch := make(chan comm.RoomEvent, 16)
	b.mu.Lock()
	if b.subs[roomID] == nil {
		b.subs[roomID] = make(map[chan comm.RoomEvent]struct{})
	}
	b.subs[roomID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the room's subscribers.
func (b *Bus) Unsubscribe(roomID int64, ch chan comm.RoomEvent) {
	b.mu.Lock()
	delete(b.subs[roomID], ch)
	if len(b.subs[roomID]) == 0 {
		delete(b.subs, roomID)
	}
	b.mu.Unlock()
}

func (b *Bus) PlayersChanged(roomID int64, players []*models.Player) {
	b.publish(roomID, comm.EventPlayersChanged, comm.PlayersChangedData{Players: players})
}

func (b *Bus) RoomStatusChanged(roomID int64, status string) {
	b.publish(roomID, comm.EventRoomStatusChanged, comm.RoomStatusChangedData{RoomId: roomID, Status: status})
}

func (b *Bus) StandingsChanged(roomID int64, standings []*models.PlayerStanding) {
	b.publish(roomID, comm.EventStandingsChanged, comm.StandingsChangedData{Standings: standings})
}

func (b *Bus) QuestionAnsweredBy(roomID, questionID int64, playerIDs []int64) {
	b.publish(roomID, comm.EventQuestionAnsweredBy, comm.QuestionAnsweredByData{QuestionId: questionID, PlayerIds: playerIDs})
}

func (b *Bus) publish(roomID int64, eventType string, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		log.Errorf("unable to marshal %s payload for room %d: %s", eventType, roomID, err)
		return
	}

	event := comm.RoomEvent{Type: eventType, RoomId: roomID, Data: raw}

	b.mu.RLock()
	for ch := range b.subs[roomID] {
		select {
		case ch <- event:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
