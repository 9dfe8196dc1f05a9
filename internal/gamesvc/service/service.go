package service

import (
	"context"
	"errors"

	"github.com/quizlive/quiz-services/internal/gamesvc/models"
)

// Service-level failures beyond the store taxonomy.
var (
	// ErrForbidden: caller is not the room owner for an owner-only action,
	// or not an approved player for a player-only read.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidStatus: status value outside created/live/finished/closed.
	ErrInvalidStatus = errors.New("invalid room status")
)

// RoomStore is what the services need from the rooms table. Satisfied by
// store.RoomStore (Postgres) and memory.RoomStore.
type RoomStore interface {
	Insert(ctx context.Context, room *models.Room) (*models.Room, error)
	GetByID(ctx context.Context, roomID int64) (*models.Room, error)
	GetActiveByGameAndOwner(ctx context.Context, gameID, ownerID int64) (*models.Room, error)
	GetActiveByInviteCode(ctx context.Context, inviteCode string) (*models.Room, error)
	ListByStatus(ctx context.Context, status string) ([]*models.Room, error)
	UpdateStatus(ctx context.Context, roomID int64, status string) error
	Delete(ctx context.Context, roomID int64) error
}

type PlayerStore interface {
	CreateIfCapacity(ctx context.Context, roomID int64, displayName, avatarURL, role string, approved bool, cap int) (*models.Player, error)
	GetByID(ctx context.Context, playerID int64) (*models.Player, error)
	GetByRoomAndName(ctx context.Context, roomID int64, displayName string) (*models.Player, error)
	ListByRoom(ctx context.Context, roomID int64) ([]*models.Player, error)
	ListApprovedByRoom(ctx context.Context, roomID int64) ([]*models.Player, error)
	SetApproval(ctx context.Context, playerID int64, approved bool) error
	ApproveAll(ctx context.Context, roomID int64) error
	Delete(ctx context.Context, playerID int64) error
}

type AnswerStore interface {
	Insert(ctx context.Context, a *models.AnswerAttempt) (*models.AnswerAttempt, error)
	GetByPlayerAndQuestion(ctx context.Context, playerID, questionID int64) (*models.AnswerAttempt, error)
	ListByPlayer(ctx context.Context, playerID int64) ([]*models.AnswerAttempt, error)
	ListByRoom(ctx context.Context, roomID int64) ([]*models.AnswerAttempt, error)
	ListPlayerIDsByRoomAndQuestion(ctx context.Context, roomID, questionID int64) ([]int64, error)
}

// TemplateStore is the read-only view of the authoring database. Satisfied
// by templates.Store (MongoDB) and templates.StaticStore.
type TemplateStore interface {
	GetGame(ctx context.Context, gameID int64) (*models.Game, error)
	GetQuestion(ctx context.Context, questionID int64) (*models.Question, error)
	ListQuestionsByGame(ctx context.Context, gameID int64) ([]*models.Question, error)
}
