package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/quizlive/quiz-services/internal/gamesvc/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomStore struct {
	db *pgxpool.Pool
}

func NewRoomStore(db *pgxpool.Pool) *RoomStore {
	return &RoomStore{db: db}
}

// Insert creates the room row. The partial unique index
// unique_active_invite_code rejects a code already held by another room in
// status created/live; callers regenerate and retry on ErrInviteCodeTaken.
func (s *RoomStore) Insert(ctx context.Context, room *models.Room) (*models.Room, error) {
	query := `
		INSERT INTO rooms (game_id, owner_id, invite_code, status, expired_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, game_id, owner_id, invite_code, status, created_at, expired_at
	`

	created := &models.Room{}
	err := s.db.QueryRow(ctx, query,
		room.GameID, room.OwnerID, room.InviteCode, room.Status, room.ExpiredAt,
	).Scan(
		&created.ID,
		&created.GameID,
		&created.OwnerID,
		&created.InviteCode,
		&created.Status,
		&created.CreatedAt,
		&created.ExpiredAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "unique_active_invite_code" {
			return nil, ErrInviteCodeTaken
		}
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return created, nil
}

func (s *RoomStore) GetByID(ctx context.Context, roomID int64) (*models.Room, error) {
	query := `
		SELECT id, game_id, owner_id, invite_code, status, created_at, expired_at
		FROM rooms
		WHERE id = $1
	`

	room := &models.Room{}
	err := s.db.QueryRow(ctx, query, roomID).Scan(
		&room.ID,
		&room.GameID,
		&room.OwnerID,
		&room.InviteCode,
		&room.Status,
		&room.CreatedAt,
		&room.ExpiredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // room not found
		}
		return nil, fmt.Errorf("failed to get room by ID: %w", err)
	}

	return room, nil
}

// GetActiveByGameAndOwner returns the newest unexpired created/live room for
// the (game, owner) pair, or nil when there is none.
func (s *RoomStore) GetActiveByGameAndOwner(ctx context.Context, gameID, ownerID int64) (*models.Room, error) {
	query := `
		SELECT id, game_id, owner_id, invite_code, status, created_at, expired_at
		FROM rooms
		WHERE game_id = $1 AND owner_id = $2
		  AND status IN ('created', 'live')
		  AND expired_at > now()
		ORDER BY created_at DESC
		LIMIT 1
	`

	room := &models.Room{}
	err := s.db.QueryRow(ctx, query, gameID, ownerID).Scan(
		&room.ID,
		&room.GameID,
		&room.OwnerID,
		&room.InviteCode,
		&room.Status,
		&room.CreatedAt,
		&room.ExpiredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active room: %w", err)
	}

	return room, nil
}

// GetActiveByInviteCode resolves an invite code to its unexpired created/live
// room, or nil when the code points nowhere usable.
func (s *RoomStore) GetActiveByInviteCode(ctx context.Context, inviteCode string) (*models.Room, error) {
	query := `
		SELECT id, game_id, owner_id, invite_code, status, created_at, expired_at
		FROM rooms
		WHERE invite_code = $1
		  AND status IN ('created', 'live')
		  AND expired_at > now()
		LIMIT 1
	`

	room := &models.Room{}
	err := s.db.QueryRow(ctx, query, inviteCode).Scan(
		&room.ID,
		&room.GameID,
		&room.OwnerID,
		&room.InviteCode,
		&room.Status,
		&room.CreatedAt,
		&room.ExpiredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve invite code: %w", err)
	}

	return room, nil
}

func (s *RoomStore) ListByStatus(ctx context.Context, status string) ([]*models.Room, error) {
	query := `
		SELECT id, game_id, owner_id, invite_code, status, created_at, expired_at
		FROM rooms
		WHERE status = $1 AND expired_at > now()
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		var r models.Room
		err := rows.Scan(
			&r.ID,
			&r.GameID,
			&r.OwnerID,
			&r.InviteCode,
			&r.Status,
			&r.CreatedAt,
			&r.ExpiredAt,
		)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, &r)
	}

	return rooms, nil
}

func (s *RoomStore) UpdateStatus(ctx context.Context, roomID int64, status string) error {
	tag, err := s.db.Exec(ctx, `UPDATE rooms SET status = $2 WHERE id = $1`, roomID, status)
	if err != nil {
		return fmt.Errorf("failed to update room status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the room; players and answer attempts cascade away with it.
func (s *RoomStore) Delete(ctx context.Context, roomID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, roomID)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
