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

type PlayerStore struct {
	db *pgxpool.Pool
}

func NewPlayerStore(db *pgxpool.Pool) *PlayerStore {
	return &PlayerStore{db: db}
}

// CreateIfCapacity admits a player in one statement. The CTE locks the room
// row (serializing admissions per room), counts approved seats and inserts
// only while the count is below cap. It fails with:
// - ErrCapacityExceeded when the insert is suppressed by the cap
// - ErrConflict when the display name is already taken in the room
//   (unique_room_display_name), so a racing rejoin can re-fetch the winner
// The caller must have resolved the room as usable beforehand.
func (s *PlayerStore) CreateIfCapacity(ctx context.Context, roomID int64, displayName, avatarURL, role string, approved bool, cap int) (*models.Player, error) {
	if roomID <= 0 {
		return nil, fmt.Errorf("invalid room ID: %d", roomID)
	}
	if displayName == "" {
		return nil, fmt.Errorf("display name cannot be empty")
	}

	const query = `
WITH locked_room AS (
  SELECT id
  FROM rooms
  WHERE id = $1
    AND status IN ('created', 'live')
    AND expired_at > now()
  FOR UPDATE
), approved_seats AS (
  SELECT count(*) AS c
  FROM players
  WHERE room_id = $1 AND is_approved
)
INSERT INTO players (room_id, display_name, avatar_url, role, is_approved)
SELECT lr.id, $2, $3, $4, $5
FROM locked_room lr, approved_seats a
WHERE a.c < $6
RETURNING id, room_id, display_name, avatar_url, role, is_approved, created_at;
`
	p := &models.Player{}
	err := s.db.QueryRow(ctx, query, roomID, displayName, avatarURL, role, approved, cap).Scan(
		&p.ID,
		&p.RoomID,
		&p.DisplayName,
		&p.AvatarURL,
		&p.Role,
		&p.IsApproved,
		&p.CreatedAt,
	)
	if err != nil {
		// zero rows: room not usable or no seat left; the caller already
		// proved the room usable, so report the cap
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCapacityExceeded
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" && pgErr.ConstraintName == "unique_room_display_name" {
				return nil, ErrConflict
			}
			if pgErr.Code == "23503" {
				return nil, ErrNotFound
			}
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return p, nil
}

func (s *PlayerStore) GetByID(ctx context.Context, playerID int64) (*models.Player, error) {
	query := `
		SELECT id, room_id, display_name, avatar_url, role, is_approved, created_at
		FROM players
		WHERE id = $1
	`

	p := &models.Player{}
	err := s.db.QueryRow(ctx, query, playerID).Scan(
		&p.ID,
		&p.RoomID,
		&p.DisplayName,
		&p.AvatarURL,
		&p.Role,
		&p.IsApproved,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // player not found
		}
		return nil, fmt.Errorf("failed to get player by ID: %w", err)
	}

	return p, nil
}

func (s *PlayerStore) GetByRoomAndName(ctx context.Context, roomID int64, displayName string) (*models.Player, error) {
	query := `
		SELECT id, room_id, display_name, avatar_url, role, is_approved, created_at
		FROM players
		WHERE room_id = $1 AND display_name = $2
	`

	p := &models.Player{}
	err := s.db.QueryRow(ctx, query, roomID, displayName).Scan(
		&p.ID,
		&p.RoomID,
		&p.DisplayName,
		&p.AvatarURL,
		&p.Role,
		&p.IsApproved,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get player by name: %w", err)
	}

	return p, nil
}

func (s *PlayerStore) ListByRoom(ctx context.Context, roomID int64) ([]*models.Player, error) {
	return s.list(ctx, `
		SELECT id, room_id, display_name, avatar_url, role, is_approved, created_at
		FROM players
		WHERE room_id = $1
		ORDER BY created_at
	`, roomID)
}

func (s *PlayerStore) ListApprovedByRoom(ctx context.Context, roomID int64) ([]*models.Player, error) {
	return s.list(ctx, `
		SELECT id, room_id, display_name, avatar_url, role, is_approved, created_at
		FROM players
		WHERE room_id = $1 AND is_approved
		ORDER BY created_at
	`, roomID)
}

func (s *PlayerStore) list(ctx context.Context, query string, roomID int64) ([]*models.Player, error) {
	rows, err := s.db.Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []*models.Player
	for rows.Next() {
		var p models.Player
		err := rows.Scan(
			&p.ID,
			&p.RoomID,
			&p.DisplayName,
			&p.AvatarURL,
			&p.Role,
			&p.IsApproved,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		players = append(players, &p)
	}

	return players, nil
}

func (s *PlayerStore) SetApproval(ctx context.Context, playerID int64, approved bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE players SET is_approved = $2 WHERE id = $1`, playerID, approved)
	if err != nil {
		return fmt.Errorf("failed to set approval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ApproveAll flips every seat in the room approved in one statement.
func (s *PlayerStore) ApproveAll(ctx context.Context, roomID int64) error {
	_, err := s.db.Exec(ctx, `UPDATE players SET is_approved = true WHERE room_id = $1`, roomID)
	if err != nil {
		return fmt.Errorf("failed to approve players: %w", err)
	}
	return nil
}

func (s *PlayerStore) Delete(ctx context.Context, playerID int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM players WHERE id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
