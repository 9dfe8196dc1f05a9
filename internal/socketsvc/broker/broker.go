package broker

import (
	"encoding/json"

	"github.com/quizlive/quiz-services/internal/comm"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Broker relays room events from NATS to the websockets following each
// room. It never talks to storage; the game service owns all writes.
type Broker struct {
	Conn           *nats.Conn
	GetConnection  func(string) (*websocket.Conn, bool)
	GetRoomSockets func(int64) ([]string, bool)
}

func NewBroker(conn *nats.Conn, fncGetConnection func(string) (*websocket.Conn, bool),
	fncGetRoomSockets func(int64) ([]string, bool)) *Broker {
	return &Broker{
		Conn:           conn,
		GetConnection:  fncGetConnection,
		GetRoomSockets: fncGetRoomSockets,
	}
}

// Subscribe consumes every room's event stream (room.*.events).
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// handleMessages fans one room event out to the room's sockets.
func (b *Broker) handleMessages(msgNats *nats.Msg) {
	event := &comm.RoomEvent{}
	if err := json.Unmarshal(msgNats.Data, &event); err != nil {
		log.Errorf("Error decoding room event: %s", err)
		return
	}

	sockets, ok := b.GetRoomSockets(event.RoomId)
	if !ok {
		return // nobody watching this room here
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Errorf("Error encoding room event %s: %s", event.Type, err)
		return
	}

	for _, socketId := range sockets {
		conn, ok := b.GetConnection(socketId)
		if !ok {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Errorf("Error writing %s to socket %s: %s", event.Type, socketId, err)
		}
	}
}
