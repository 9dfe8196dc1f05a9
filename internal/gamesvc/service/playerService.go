package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quizlive/quiz-services/internal/gamesvc/broadcast"
	"github.com/quizlive/quiz-services/internal/gamesvc/models"
	"github.com/quizlive/quiz-services/internal/gamesvc/store"
)

type PlayerService struct {
	rooms     RoomStore
	players   PlayerStore
	templates TemplateStore
	pub       broadcast.Publisher
}

func NewPlayerService(rooms RoomStore, players PlayerStore, templates TemplateStore, pub broadcast.Publisher) *PlayerService {
	return &PlayerService{rooms: rooms, players: players, templates: templates, pub: pub}
}

// JoinResult carries the joining player's seat plus the room context a
// client needs to render the lobby.
type JoinResult struct {
	Player  *models.Player   `json:"player"`
	RoomID  int64            `json:"room_id"`
	GameID  int64            `json:"game_id"`
	Players []*models.Player `json:"players"`
}

// JoinByInviteCode seats a guest in the room behind the code. Rejoining with
// a display name already present returns that seat unchanged, without a
// capacity check. A fresh name is admitted unapproved through the
// capacity-checked insert; the approved-seat count never exceeds the game's
// player cap.
func (s *PlayerService) JoinByInviteCode(ctx context.Context, inviteCode, displayName, avatarURL string) (*JoinResult, error) {
	room, err := s.rooms.GetActiveByInviteCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, store.ErrNotFound
	}

	player, err := s.players.GetByRoomAndName(ctx, room.ID, displayName)
	if err != nil {
		return nil, err
	}

	if player == nil {
		game, err := s.templates.GetGame(ctx, room.GameID)
		if err != nil {
			return nil, err
		}
		if game == nil {
			return nil, store.ErrNotFound
		}

		player, err = s.players.CreateIfCapacity(ctx, room.ID, displayName, avatarURL, models.RoleGuest, false, game.PlayerCap)
		if errors.Is(err, store.ErrConflict) {
			// lost a race against the same name joining; the winner's
			// seat is the idempotent result
			player, err = s.players.GetByRoomAndName(ctx, room.ID, displayName)
			if err != nil {
				return nil, err
			}
			if player == nil {
				return nil, fmt.Errorf("player vanished after join race in room %d", room.ID)
			}
		} else if err != nil {
			return nil, err
		}
	}

	players, err := s.players.ListByRoom(ctx, room.ID)
	if err != nil {
		return nil, err
	}

	s.pub.PlayersChanged(room.ID, players)

	return &JoinResult{Player: player, RoomID: room.ID, GameID: room.GameID, Players: players}, nil
}

// SetApproval flips one seat's admission flag. Owner only.
func (s *PlayerService) SetApproval(ctx context.Context, playerID, ownerID int64, approved bool) error {
	player, room, err := s.resolve(ctx, playerID)
	if err != nil {
		return err
	}
	if room.OwnerID != ownerID {
		return ErrForbidden
	}

	if err := s.players.SetApproval(ctx, player.ID, approved); err != nil {
		return err
	}

	players, err := s.players.ListByRoom(ctx, room.ID)
	if err != nil {
		return err
	}
	s.pub.PlayersChanged(room.ID, players)
	s.pub.RoomStatusChanged(room.ID, room.Status)

	return nil
}

// ApproveAll admits every seat in one operation. Owner only, room must be
// created or live and unexpired.
func (s *PlayerService) ApproveAll(ctx context.Context, roomID, ownerID int64) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil || !room.Usable(time.Now(), models.RoomCreated, models.RoomLive) {
		return store.ErrNotFound
	}
	if room.OwnerID != ownerID {
		return ErrForbidden
	}

	if err := s.players.ApproveAll(ctx, roomID); err != nil {
		return err
	}

	players, err := s.players.ListByRoom(ctx, roomID)
	if err != nil {
		return err
	}
	s.pub.PlayersChanged(roomID, players)

	return nil
}

// RemovePlayer deletes a seat. Owner only, room must be created or live.
func (s *PlayerService) RemovePlayer(ctx context.Context, playerID, ownerID int64) error {
	player, room, err := s.resolve(ctx, playerID)
	if err != nil {
		return err
	}
	if !room.Usable(time.Now(), models.RoomCreated, models.RoomLive) {
		return store.ErrNotFound
	}
	if room.OwnerID != ownerID {
		return ErrForbidden
	}

	if err := s.players.Delete(ctx, player.ID); err != nil {
		return err
	}

	players, err := s.players.ListByRoom(ctx, room.ID)
	if err != nil {
		return err
	}
	s.pub.PlayersChanged(room.ID, players)

	return nil
}

// ListApproved returns the approved seats of a room. The caller must itself
// be an approved player of that room.
func (s *PlayerService) ListApproved(ctx context.Context, roomID, requestingPlayerID int64) ([]*models.Player, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil || !room.ExpiredAt.After(time.Now()) {
		return nil, store.ErrNotFound
	}

	requester, err := s.players.GetByID(ctx, requestingPlayerID)
	if err != nil {
		return nil, err
	}
	if requester == nil || requester.RoomID != roomID || !requester.IsApproved {
		return nil, ErrForbidden
	}

	return s.players.ListApprovedByRoom(ctx, roomID)
}

// resolve loads a player and its room, applying the expiry rule.
func (s *PlayerService) resolve(ctx context.Context, playerID int64) (*models.Player, *models.Room, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, nil, err
	}
	if player == nil {
		return nil, nil, store.ErrNotFound
	}

	room, err := s.rooms.GetByID(ctx, player.RoomID)
	if err != nil {
		return nil, nil, err
	}
	if room == nil || !room.ExpiredAt.After(time.Now()) {
		return nil, nil, store.ErrNotFound
	}

	return player, room, nil
}
