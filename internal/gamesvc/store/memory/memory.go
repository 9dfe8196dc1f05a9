// Package memory is a mutex-guarded implementation of the game service
// store interfaces. It mirrors the Postgres constraint semantics (active
// invite-code uniqueness, per-room display names, one attempt per player and
// question, capacity-checked admission) so the service layer behaves the
// same against either backend. Used by the test suites and for local
// development without Postgres.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/quizlive/quiz-services/internal/gamesvc/models"
	"github.com/quizlive/quiz-services/internal/gamesvc/store"
)

// Store bundles the three table views over one locked data set.
type Store struct {
	Rooms   *RoomStore
	Players *PlayerStore
	Answers *AnswerStore

	core *core
}

func NewStore() *Store {
	c := &core{nowFunc: time.Now}
	return &Store{
		Rooms:   &RoomStore{c},
		Players: &PlayerStore{c},
		Answers: &AnswerStore{c},
		core:    c,
	}
}

// SetNow overrides the clock used for expiry checks.
func (s *Store) SetNow(now func() time.Time) {
	s.core.mu.Lock()
	s.core.nowFunc = now
	s.core.mu.Unlock()
}

type core struct {
	mu      sync.Mutex
	nowFunc func() time.Time

	nextRoomID    int64
	nextPlayerID  int64
	nextAttemptID int64

	rooms    []*models.Room
	players  []*models.Player
	attempts []*models.AnswerAttempt
}

func (c *core) roomActive(r *models.Room, now time.Time) bool {
	return (r.Status == models.RoomCreated || r.Status == models.RoomLive) && r.ExpiredAt.After(now)
}

func cloneRoom(r *models.Room) *models.Room {
	cp := *r
	return &cp
}

func clonePlayer(p *models.Player) *models.Player {
	cp := *p
	return &cp
}

func cloneAttempt(a *models.AnswerAttempt) *models.AnswerAttempt {
	cp := *a
	return &cp
}

// --- rooms ---

type RoomStore struct {
	c *core
}

func (s *RoomStore) Insert(ctx context.Context, room *models.Room) (*models.Room, error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.rooms {
		if r.InviteCode == room.InviteCode && (r.Status == models.RoomCreated || r.Status == models.RoomLive) {
			return nil, store.ErrInviteCodeTaken
		}
	}

	c.nextRoomID++
	created := cloneRoom(room)
	created.ID = c.nextRoomID
	created.CreatedAt = c.nowFunc()
	c.rooms = append(c.rooms, created)

	return cloneRoom(created), nil
}

func (s *RoomStore) GetByID(ctx context.Context, roomID int64) (*models.Room, error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.rooms {
		if r.ID == roomID {
			return cloneRoom(r), nil
		}
	}
	return nil, nil
}

func (s *RoomStore) GetActiveByGameAndOwner(ctx context.Context, gameID, ownerID int64) (*models.Room, error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFunc()
	var newest *models.Room
	for _, r := range c.rooms {
		if r.GameID == gameID && r.OwnerID == ownerID && c.roomActive(r, now) {
			if newest == nil || r.ID > newest.ID {
				newest = r
			}
		}
	}
	if newest == nil {
		return nil, nil
	}
	return cloneRoom(newest), nil
}

func (s *RoomStore) GetActiveByInviteCode(ctx context.Context, inviteCode string) (*models.Room, error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFunc()
	for _, r := range c.rooms {
		if r.InviteCode == inviteCode && c.roomActive(r, now) {
			return cloneRoom(r), nil
		}
	}
	return nil, nil
}

func (s *RoomStore) ListByStatus(ctx context.Context, status string) ([]*models.Room, error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFunc()
	var rooms []*models.Room
	// newest first, matching the SQL ordering
	for i := len(c.rooms) - 1; i >= 0; i-- {
		r := c.rooms[i]
		if r.Status == status && r.ExpiredAt.After(now) {
			rooms = append(rooms, cloneRoom(r))
		}
	}
	return rooms, nil
}

func (s *RoomStore) UpdateStatus(ctx context.Context, roomID int64, status string) error {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.rooms {
		if r.ID == roomID {
			r.Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *RoomStore) Delete(ctx context.Context, roomID int64) error {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i, r := range c.rooms {
		if r.ID == roomID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return store.ErrNotFound
	}
	c.rooms = append(c.rooms[:idx], c.rooms[idx+1:]...)

	// cascade players and their attempts
	removed := make(map[int64]bool)
	var keptPlayers []*models.Player
	for _, p := range c.players {
		if p.RoomID == roomID {
			removed[p.ID] = true
			continue
		}
		keptPlayers = append(keptPlayers, p)
	}
	c.players = keptPlayers

	var keptAttempts []*models.AnswerAttempt
	for _, a := range c.attempts {
		if !removed[a.PlayerID] {
			keptAttempts = append(keptAttempts, a)
		}
	}
	c.attempts = keptAttempts

	return nil
}

// --- players ---

type PlayerStore struct {
	c *core
}

func (s *PlayerStore) CreateIfCapacity(ctx context.Context, roomID int64, displayName, avatarURL, role string, approved bool, cap int) (*models.Player, error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFunc()
	var room *models.Room
	for _, r := range c.rooms {
		if r.ID == roomID {
			room = r
			break
		}
	}
	// an unusable room suppresses the insert the same way the locked CTE does
	if room == nil || !c.roomActive(room, now) {
		return nil, store.ErrCapacityExceeded
	}

	approvedSeats := 0
	for _, p := range c.players {
		if p.RoomID == roomID {
			if p.DisplayName == displayName {
				return nil, store.ErrConflict
			}
			if p.IsApproved {
				approvedSeats++
			}
		}
	}
	if approvedSeats >= cap {
		return nil, store.ErrCapacityExceeded
	}

	c.nextPlayerID++
	created := &models.Player{
		ID:          c.nextPlayerID,
		RoomID:      roomID,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		Role:        role,
		IsApproved:  approved,
		CreatedAt:   now,
	}
	c.players = append(c.players, created)

	return clonePlayer(created), nil
}

func (s *PlayerStore) GetByID(ctx context.Context, playerID int64) (*models.Player, error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.players {
		if p.ID == playerID {
			return clonePlayer(p), nil
		}
	}
	return nil, nil
}

func (s *PlayerStore) GetByRoomAndName(ctx context.Context, roomID int64, displayName string) (*models.Player, error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.players {
		if p.RoomID == roomID && p.DisplayName == displayName {
			return clonePlayer(p), nil
		}
	}
	return nil, nil
}

func (s *PlayerStore) ListByRoom(ctx context.Context, roomID int64) ([]*models.Player, error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	var players []*models.Player
	for _, p := range c.players {
		if p.RoomID == roomID {
			players = append(players, clonePlayer(p))
		}
	}
	return players, nil
}

func (s *PlayerStore) ListApprovedByRoom(ctx context.Context, roomID int64) ([]*models.Player, error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	var players []*models.Player
	for _, p := range c.players {
		if p.RoomID == roomID && p.IsApproved {
			players = append(players, clonePlayer(p))
		}
	}
	return players, nil
}

func (s *PlayerStore) SetApproval(ctx context.Context, playerID int64, approved bool) error {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.players {
		if p.ID == playerID {
			p.IsApproved = approved
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *PlayerStore) ApproveAll(ctx context.Context, roomID int64) error {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range c.players {
		if p.RoomID == roomID {
			p.IsApproved = true
		}
	}
	return nil
}

func (s *PlayerStore) Delete(ctx context.Context, playerID int64) error {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := -1
	for i, p := range c.players {
		if p.ID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return store.ErrNotFound
	}
	c.players = append(c.players[:idx], c.players[idx+1:]...)

	var kept []*models.AnswerAttempt
	for _, a := range c.attempts {
		if a.PlayerID != playerID {
			kept = append(kept, a)
		}
	}
	c.attempts = kept

	return nil
}

// --- answer attempts ---

type AnswerStore struct {
	c *core
}

func (s *AnswerStore) Insert(ctx context.Context, a *models.AnswerAttempt) (*models.AnswerAttempt, error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	playerExists := false
	for _, p := range c.players {
		if p.ID == a.PlayerID {
			playerExists = true
			break
		}
	}
	if !playerExists {
		return nil, store.ErrNotFound
	}

	for _, existing := range c.attempts {
		if existing.PlayerID == a.PlayerID && existing.QuestionID == a.QuestionID {
			return nil, store.ErrConflict
		}
	}

	c.nextAttemptID++
	created := cloneAttempt(a)
	created.ID = c.nextAttemptID
	created.CreatedAt = c.nowFunc()
	c.attempts = append(c.attempts, created)

	return cloneAttempt(created), nil
}

func (s *AnswerStore) GetByPlayerAndQuestion(ctx context.Context, playerID, questionID int64) (*models.AnswerAttempt, error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, a := range c.attempts {
		if a.PlayerID == playerID && a.QuestionID == questionID {
			return cloneAttempt(a), nil
		}
	}
	return nil, nil
}

func (s *AnswerStore) ListByPlayer(ctx context.Context, playerID int64) ([]*models.AnswerAttempt, error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	var attempts []*models.AnswerAttempt
	for _, a := range c.attempts {
		if a.PlayerID == playerID {
			attempts = append(attempts, cloneAttempt(a))
		}
	}
	return attempts, nil
}

func (s *AnswerStore) ListByRoom(ctx context.Context, roomID int64) ([]*models.AnswerAttempt, error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	inRoom := make(map[int64]bool)
	for _, p := range c.players {
		if p.RoomID == roomID {
			inRoom[p.ID] = true
		}
	}

	var attempts []*models.AnswerAttempt
	for _, a := range c.attempts {
		if inRoom[a.PlayerID] {
			attempts = append(attempts, cloneAttempt(a))
		}
	}
	return attempts, nil
}

func (s *AnswerStore) ListPlayerIDsByRoomAndQuestion(ctx context.Context, roomID, questionID int64) ([]int64, error) {
	c := s.c
	c.mu.Lock()
	defer c.mu.Unlock()

	inRoom := make(map[int64]bool)
	for _, p := range c.players {
		if p.RoomID == roomID {
			inRoom[p.ID] = true
		}
	}

	var ids []int64
	for _, a := range c.attempts {
		if a.QuestionID == questionID && inRoom[a.PlayerID] {
			ids = append(ids, a.PlayerID)
		}
	}
	return ids, nil
}
