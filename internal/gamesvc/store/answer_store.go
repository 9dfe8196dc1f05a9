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

type AnswerStore struct {
	db *pgxpool.Pool
}

func NewAnswerStore(db *pgxpool.Pool) *AnswerStore {
	return &AnswerStore{db: db}
}

// Insert records one attempt. The unique_player_question constraint makes
// the row at-most-once per (player, question): the loser of a concurrent
// double submission gets ErrConflict, never an overwrite.
func (s *AnswerStore) Insert(ctx context.Context, a *models.AnswerAttempt) (*models.AnswerAttempt, error) {
	query := `
		INSERT INTO answer_attempts
			(player_id, question_id, submitted_answer, correct_answer, is_correct, time_limit, time_taken, points_awarded)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, player_id, question_id, submitted_answer, correct_answer, is_correct, time_limit, time_taken, points_awarded, created_at
	`

	created := &models.AnswerAttempt{}
	err := s.db.QueryRow(ctx, query,
		a.PlayerID, a.QuestionID, a.SubmittedAnswer, a.CorrectAnswer,
		a.IsCorrect, a.TimeLimit, a.TimeTaken, a.PointsAwarded,
	).Scan(
		&created.ID,
		&created.PlayerID,
		&created.QuestionID,
		&created.SubmittedAnswer,
		&created.CorrectAnswer,
		&created.IsCorrect,
		&created.TimeLimit,
		&created.TimeTaken,
		&created.PointsAwarded,
		&created.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" && pgErr.ConstraintName == "unique_player_question" {
				return nil, ErrConflict
			}
			if pgErr.Code == "23503" {
				return nil, ErrNotFound
			}
		}
		return nil, fmt.Errorf("failed to record answer attempt: %w", err)
	}

	return created, nil
}

func (s *AnswerStore) GetByPlayerAndQuestion(ctx context.Context, playerID, questionID int64) (*models.AnswerAttempt, error) {
	query := `
		SELECT id, player_id, question_id, submitted_answer, correct_answer, is_correct, time_limit, time_taken, points_awarded, created_at
		FROM answer_attempts
		WHERE player_id = $1 AND question_id = $2
	`

	a := &models.AnswerAttempt{}
	err := s.db.QueryRow(ctx, query, playerID, questionID).Scan(
		&a.ID,
		&a.PlayerID,
		&a.QuestionID,
		&a.SubmittedAnswer,
		&a.CorrectAnswer,
		&a.IsCorrect,
		&a.TimeLimit,
		&a.TimeTaken,
		&a.PointsAwarded,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get answer attempt: %w", err)
	}

	return a, nil
}

func (s *AnswerStore) ListByPlayer(ctx context.Context, playerID int64) ([]*models.AnswerAttempt, error) {
	query := `
		SELECT id, player_id, question_id, submitted_answer, correct_answer, is_correct, time_limit, time_taken, points_awarded, created_at
		FROM answer_attempts
		WHERE player_id = $1
		ORDER BY created_at
	`
	return s.list(ctx, query, playerID)
}

// ListByRoom fetches every attempt recorded in the room, in insertion order,
// for standing aggregation.
func (s *AnswerStore) ListByRoom(ctx context.Context, roomID int64) ([]*models.AnswerAttempt, error) {
	query := `
		SELECT a.id, a.player_id, a.question_id, a.submitted_answer, a.correct_answer, a.is_correct, a.time_limit, a.time_taken, a.points_awarded, a.created_at
		FROM answer_attempts a
		JOIN players p ON p.id = a.player_id
		WHERE p.room_id = $1
		ORDER BY a.created_at
	`
	return s.list(ctx, query, roomID)
}

func (s *AnswerStore) list(ctx context.Context, query string, arg int64) ([]*models.AnswerAttempt, error) {
	rows, err := s.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []*models.AnswerAttempt
	for rows.Next() {
		var a models.AnswerAttempt
		err := rows.Scan(
			&a.ID,
			&a.PlayerID,
			&a.QuestionID,
			&a.SubmittedAnswer,
			&a.CorrectAnswer,
			&a.IsCorrect,
			&a.TimeLimit,
			&a.TimeTaken,
			&a.PointsAwarded,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, &a)
	}

	return attempts, nil
}

// ListPlayerIDsByRoomAndQuestion returns who in the room has answered the
// question, oldest first, without exposing what they answered.
func (s *AnswerStore) ListPlayerIDsByRoomAndQuestion(ctx context.Context, roomID, questionID int64) ([]int64, error) {
	query := `
		SELECT a.player_id
		FROM answer_attempts a
		JOIN players p ON p.id = a.player_id
		WHERE p.room_id = $1 AND a.question_id = $2
		ORDER BY a.created_at
	`

	rows, err := s.db.Query(ctx, query, roomID, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}
