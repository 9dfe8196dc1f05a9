package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizlive/quiz-services/internal/gamesvc/models"
	"github.com/quizlive/quiz-services/internal/gamesvc/store"
)

func newRoom(code, status string) *models.Room {
	return &models.Room{
		GameID:     1,
		OwnerID:    7,
		InviteCode: code,
		Status:     status,
		ExpiredAt:  time.Now().Add(time.Hour),
	}
}

func TestInviteCodeUniqueWhileActive(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first, err := s.Rooms.Insert(ctx, newRoom("1234", models.RoomCreated))
	require.NoError(t, err)

	_, err = s.Rooms.Insert(ctx, newRoom("1234", models.RoomCreated))
	assert.ErrorIs(t, err, store.ErrInviteCodeTaken)

	// a finished room releases its code for reuse
	require.NoError(t, s.Rooms.UpdateStatus(ctx, first.ID, models.RoomFinished))

	_, err = s.Rooms.Insert(ctx, newRoom("1234", models.RoomCreated))
	assert.NoError(t, err)
}

func TestCreateIfCapacityEnforcesCapAndName(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	room, err := s.Rooms.Insert(ctx, newRoom("1234", models.RoomCreated))
	require.NoError(t, err)

	_, err = s.Players.CreateIfCapacity(ctx, room.ID, "alice", "", models.RoleAdmin, true, 2)
	require.NoError(t, err)

	// duplicate names collide before the capacity check
	_, err = s.Players.CreateIfCapacity(ctx, room.ID, "alice", "", models.RoleGuest, false, 2)
	assert.ErrorIs(t, err, store.ErrConflict)

	// approved seats count toward the cap, pending ones do not
	_, err = s.Players.CreateIfCapacity(ctx, room.ID, "bob", "", models.RoleGuest, false, 2)
	require.NoError(t, err)
	second, err := s.Players.CreateIfCapacity(ctx, room.ID, "carol", "", models.RoleGuest, true, 2)
	require.NoError(t, err)

	_, err = s.Players.CreateIfCapacity(ctx, room.ID, "dave", "", models.RoleGuest, false, 2)
	assert.ErrorIs(t, err, store.ErrCapacityExceeded)

	// freeing a seat reopens admission
	require.NoError(t, s.Players.Delete(ctx, second.ID))
	_, err = s.Players.CreateIfCapacity(ctx, room.ID, "dave", "", models.RoleGuest, false, 2)
	assert.NoError(t, err)
}

func TestCreateIfCapacityRejectsUnusableRoom(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	room, err := s.Rooms.Insert(ctx, newRoom("1234", models.RoomFinished))
	require.NoError(t, err)

	_, err = s.Players.CreateIfCapacity(ctx, room.ID, "alice", "", models.RoleGuest, false, 8)
	assert.ErrorIs(t, err, store.ErrCapacityExceeded)
}

func TestAttemptUniquePerPlayerAndQuestion(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	room, err := s.Rooms.Insert(ctx, newRoom("1234", models.RoomLive))
	require.NoError(t, err)
	p, err := s.Players.CreateIfCapacity(ctx, room.ID, "alice", "", models.RoleGuest, true, 8)
	require.NoError(t, err)

	_, err = s.Answers.Insert(ctx, &models.AnswerAttempt{PlayerID: p.ID, QuestionID: 10, SubmittedAnswer: "Paris"})
	require.NoError(t, err)

	_, err = s.Answers.Insert(ctx, &models.AnswerAttempt{PlayerID: p.ID, QuestionID: 10, SubmittedAnswer: "Rome"})
	assert.ErrorIs(t, err, store.ErrConflict)

	// a different question is a fresh pair
	_, err = s.Answers.Insert(ctx, &models.AnswerAttempt{PlayerID: p.ID, QuestionID: 11, SubmittedAnswer: "Tokyo"})
	assert.NoError(t, err)

	// an orphan attempt mirrors the FK violation
	_, err = s.Answers.Insert(ctx, &models.AnswerAttempt{PlayerID: 999, QuestionID: 10})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteRoomCascades(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	room, err := s.Rooms.Insert(ctx, newRoom("1234", models.RoomLive))
	require.NoError(t, err)
	p, err := s.Players.CreateIfCapacity(ctx, room.ID, "alice", "", models.RoleGuest, true, 8)
	require.NoError(t, err)
	_, err = s.Answers.Insert(ctx, &models.AnswerAttempt{PlayerID: p.ID, QuestionID: 10})
	require.NoError(t, err)

	require.NoError(t, s.Rooms.Delete(ctx, room.ID))

	got, err := s.Players.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	attempts, err := s.Answers.ListByPlayer(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestSetNowControlsExpiry(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	room, err := s.Rooms.Insert(ctx, newRoom("1234", models.RoomLive))
	require.NoError(t, err)

	found, err := s.Rooms.GetActiveByInviteCode(ctx, "1234")
	require.NoError(t, err)
	require.NotNil(t, found)

	s.SetNow(func() time.Time { return time.Now().Add(2 * time.Hour) })

	found, err = s.Rooms.GetActiveByInviteCode(ctx, "1234")
	require.NoError(t, err)
	assert.Nil(t, found, "rooms past their deadline are invisible to lookup")

	_, err = s.Players.CreateIfCapacity(ctx, room.ID, "late", "", models.RoleGuest, false, 8)
	assert.ErrorIs(t, err, store.ErrCapacityExceeded)
}
