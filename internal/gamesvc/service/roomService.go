package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/quizlive/quiz-services/internal/gamesvc/broadcast"
	"github.com/quizlive/quiz-services/internal/gamesvc/models"
	"github.com/quizlive/quiz-services/internal/gamesvc/store"
)

// roomTTL is how long a room stays usable after opening.
const roomTTL = time.Hour

// inviteCodeAttempts bounds the regenerate-and-retry loop; with 10000
// possible codes exhausting it means the active-room space is saturated.
const inviteCodeAttempts = 50

type RoomService struct {
	rooms     RoomStore
	players   PlayerStore
	templates TemplateStore
	pub       broadcast.Publisher
}

func NewRoomService(rooms RoomStore, players PlayerStore, templates TemplateStore, pub broadcast.Publisher) *RoomService {
	return &RoomService{rooms: rooms, players: players, templates: templates, pub: pub}
}

// OpenedRoom is the result of OpenRoom: the room, its code and the current
// seats (just the owner's on first open).
type OpenedRoom struct {
	Room    *models.Room     `json:"room"`
	Players []*models.Player `json:"players"`
}

// OpenRoom returns the owner's existing unexpired created/live room for the
// game, or creates one: a fresh 4-digit invite code (retried until unique
// among active rooms), expiry one hour out, and the owner seated as a
// pre-approved admin. The owner's seat counts against the player cap.
func (s *RoomService) OpenRoom(ctx context.Context, gameID, ownerID int64, ownerName string) (*OpenedRoom, error) {
	game, err := s.templates.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, store.ErrNotFound
	}

	room, err := s.rooms.GetActiveByGameAndOwner(ctx, gameID, ownerID)
	if err != nil {
		return nil, err
	}

	if room == nil {
		room, err = s.createRoom(ctx, gameID, ownerID)
		if err != nil {
			return nil, err
		}

		if ownerName == "" {
			ownerName = "host"
		}
		_, err = s.players.CreateIfCapacity(ctx, room.ID, ownerName, "", models.RoleAdmin, true, game.PlayerCap)
		if err != nil {
			return nil, fmt.Errorf("failed to seat room owner: %w", err)
		}
	}

	players, err := s.players.ListByRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}

	s.pub.PlayersChanged(room.ID, players)

	return &OpenedRoom{Room: room, Players: players}, nil
}

func (s *RoomService) createRoom(ctx context.Context, gameID, ownerID int64) (*models.Room, error) {
	for i := 0; i < inviteCodeAttempts; i++ {
		room := &models.Room{
			GameID:     gameID,
			OwnerID:    ownerID,
			InviteCode: generateInviteCode(),
			Status:     models.RoomCreated,
			ExpiredAt:  time.Now().Add(roomTTL),
		}

		created, err := s.rooms.Insert(ctx, room)
		if errors.Is(err, store.ErrInviteCodeTaken) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return created, nil
	}

	return nil, fmt.Errorf("no free invite code after %d attempts", inviteCodeAttempts)
}

// generateInviteCode returns a 4-digit numeric code, zero padded.
func generateInviteCode() string {
	return fmt.Sprintf("%04d", rand.Intn(10000))
}

// SetStatus persists the new status. Transitions are deliberately
// unrestricted: the owner drives the room through its lifecycle.
func (s *RoomService) SetStatus(ctx context.Context, roomID, ownerID int64, status string) error {
	switch status {
	case models.RoomCreated, models.RoomLive, models.RoomFinished, models.RoomClosed:
	default:
		return ErrInvalidStatus
	}

	room, err := s.getUsableRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID != ownerID {
		return ErrForbidden
	}

	if err := s.rooms.UpdateStatus(ctx, roomID, status); err != nil {
		return err
	}

	s.pub.RoomStatusChanged(roomID, status)
	return nil
}

// DeleteRoom hard-deletes the room; players and attempts cascade.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID, ownerID int64) error {
	room, err := s.getUsableRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID != ownerID {
		return ErrForbidden
	}

	return s.rooms.Delete(ctx, roomID)
}

func (s *RoomService) GetRoom(ctx context.Context, roomID int64) (*models.Room, error) {
	return s.getUsableRoom(ctx, roomID)
}

func (s *RoomService) ListByStatus(ctx context.Context, status string) ([]*models.Room, error) {
	switch status {
	case models.RoomCreated, models.RoomLive, models.RoomFinished, models.RoomClosed:
	default:
		return nil, ErrInvalidStatus
	}
	return s.rooms.ListByStatus(ctx, status)
}

// getUsableRoom loads a room and applies the expiry rule: a room past its
// deadline reads as not found even though the row persists.
func (s *RoomService) getUsableRoom(ctx context.Context, roomID int64) (*models.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil || !room.ExpiredAt.After(time.Now()) {
		return nil, store.ErrNotFound
	}
	return room, nil
}
