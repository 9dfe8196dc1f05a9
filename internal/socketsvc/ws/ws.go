package ws

import (
	"encoding/json"
	"sync"

	"github.com/quizlive/quiz-services/internal/comm"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

type Ws struct {
	connMap sync.Map // socketId -> *websocket.Conn
	roomMap sync.Map // socketId -> roomId, the room whose events this socket receives
}

func NewWs() *Ws {
	return &Ws{}
}

// SocketMessage handles a frame from a web client.
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case "join-room":
		s.handleJoinRoom(socketId, message)
	case "leave-room":
		s.roomMap.Delete(socketId)
	default:
		log.Warnf("unknown event received: %s", message.Type)
	}
}

// handleJoinRoom points the socket at one room's event stream. A socket
// follows at most one room; joining again switches it.
func (s *Ws) handleJoinRoom(socketId string, msg *comm.WSMessage) {
	var payload comm.JoinRoomData
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Errorf("Error: malformed join-room payload %s", err)
		return
	}

	if payload.RoomId <= 0 {
		log.Error("Invalid join-room payload: missing room id")
		return
	}

	s.StoreRoom(socketId, payload.RoomId)
	log.Infof("socket %s joined room %d", socketId, payload.RoomId)
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, conn)
}

func (s *Ws) GetConnection(socketId string) (*websocket.Conn, bool) {
	conn, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return conn.(*websocket.Conn), true
}

func (s *Ws) StoreRoom(socketId string, roomId int64) {
	s.roomMap.Store(socketId, roomId)
}

func (s *Ws) GetRoom(socketId string) (int64, bool) {
	room, ok := s.roomMap.Load(socketId)
	if !ok {
		return 0, false
	}
	return room.(int64), true
}

// GetRoomSockets lists every socket currently following the room.
func (s *Ws) GetRoomSockets(roomId int64) ([]string, bool) {
	var sockets []string
	found := false

	s.roomMap.Range(func(key, value interface{}) bool {
		if value.(int64) == roomId {
			sockets = append(sockets, key.(string))
			found = true
		}
		return true // continue iterating
	})

	return sockets, found
}

// HandleDisconnect drops the socket from both registries.
func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
	s.roomMap.Delete(socketId)
}
