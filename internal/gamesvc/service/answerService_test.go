package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizlive/quiz-services/internal/gamesvc/models"
	"github.com/quizlive/quiz-services/internal/gamesvc/scoring"
	"github.com/quizlive/quiz-services/internal/gamesvc/store"
)

// liveRoom opens a room, seats and approves one guest, and sets the room
// live. Returns the room and the guest's seat.
func liveRoom(t *testing.T, f *fixture) (*models.Room, *models.Player) {
	t.Helper()
	ctx := context.Background()

	opened := openRoom(t, f)
	joined, err := f.players.JoinByInviteCode(ctx, opened.Room.InviteCode, "bob", "")
	require.NoError(t, err)
	require.NoError(t, f.players.SetApproval(ctx, joined.Player.ID, testOwnerID, true))
	require.NoError(t, f.rooms.SetStatus(ctx, opened.Room.ID, testOwnerID, models.RoomLive))

	return opened.Room, joined.Player
}

func TestSubmitAnswerCorrect(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()
	room, guest := liveRoom(t, f)

	// 10s of a 30s limit: 1100 - floor((10/30*60)*10) = 900
	result, err := f.answers.SubmitAnswer(ctx, guest.ID, 10, "Paris", 10)
	require.NoError(t, err)
	assert.True(t, result.IsCorrect)
	assert.Equal(t, 900, result.PointsAwarded)

	attempt, err := f.store.Answers.GetByPlayerAndQuestion(ctx, guest.ID, 10)
	require.NoError(t, err)
	require.NotNil(t, attempt)
	assert.Equal(t, "Paris", attempt.SubmittedAnswer)
	assert.Equal(t, "Paris", attempt.CorrectAnswer)
	assert.Equal(t, 900, attempt.PointsAwarded)
	assert.Equal(t, 30, attempt.TimeLimit)

	// the durable write is followed by the live pushes
	standings, ok := f.pub.last("standings_changed")
	require.True(t, ok)
	assert.Equal(t, room.ID, standings.RoomID)
	assert.Equal(t, 900, standings.Standings[0].Points)

	solved, ok := f.pub.last("question_answered_by")
	require.True(t, ok)
	assert.Equal(t, int64(10), solved.QuestionID)
	assert.Equal(t, []int64{guest.ID}, solved.PlayerIDs)
}

func TestSubmitAnswerIncorrectScoresZero(t *testing.T) {
	f := newFixture(t, 4)
	_, guest := liveRoom(t, f)

	// wrong answer on the fastest possible submission still scores nothing
	result, err := f.answers.SubmitAnswer(context.Background(), guest.ID, 10, "Rome", 1)
	require.NoError(t, err)
	assert.False(t, result.IsCorrect)
	assert.Equal(t, 0, result.PointsAwarded)
}

func TestSubmitAnswerTimingBoundaries(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()
	_, guest := liveRoom(t, f)

	_, err := f.answers.SubmitAnswer(ctx, guest.ID, 10, "Paris", 0)
	assert.ErrorIs(t, err, scoring.ErrTooQuick)

	_, err = f.answers.SubmitAnswer(ctx, guest.ID, 10, "Paris", 31)
	assert.ErrorIs(t, err, scoring.ErrTimeExceeded)

	// rejections must not have written anything
	attempt, err := f.store.Answers.GetByPlayerAndQuestion(ctx, guest.ID, 10)
	require.NoError(t, err)
	assert.Nil(t, attempt)

	// the limit itself is accepted, worth the floor of the band
	result, err := f.answers.SubmitAnswer(ctx, guest.ID, 10, "Paris", 30)
	require.NoError(t, err)
	assert.Equal(t, 500, result.PointsAwarded)
}

func TestSubmitAnswerDuplicateConflict(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()
	_, guest := liveRoom(t, f)

	_, err := f.answers.SubmitAnswer(ctx, guest.ID, 10, "Paris", 5)
	require.NoError(t, err)

	_, err = f.answers.SubmitAnswer(ctx, guest.ID, 10, "Rome", 6)
	assert.ErrorIs(t, err, store.ErrConflict)

	// the original attempt survives untouched
	attempt, err := f.store.Answers.GetByPlayerAndQuestion(ctx, guest.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, "Paris", attempt.SubmittedAnswer)
}

func TestConcurrentDuplicateSubmissions(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()
	_, guest := liveRoom(t, f)

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = f.answers.SubmitAnswer(ctx, guest.ID, 11, "Tokyo", 5)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, store.ErrConflict)
		}
	}
	assert.Equal(t, 1, wins, "exactly one racer may record the attempt")

	attempts, err := f.store.Answers.ListByPlayer(ctx, guest.ID)
	require.NoError(t, err)
	assert.Len(t, attempts, 1)
}

func TestSubmitAnswerRoomMustBeLive(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	opened := openRoom(t, f)
	joined, err := f.players.JoinByInviteCode(ctx, opened.Room.InviteCode, "bob", "")
	require.NoError(t, err)
	require.NoError(t, f.players.SetApproval(ctx, joined.Player.ID, testOwnerID, true))

	// still in created
	_, err = f.answers.SubmitAnswer(ctx, joined.Player.ID, 10, "Paris", 5)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSubmitAnswerUnapprovedForbidden(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	opened := openRoom(t, f)
	joined, err := f.players.JoinByInviteCode(ctx, opened.Room.InviteCode, "bob", "")
	require.NoError(t, err)
	require.NoError(t, f.rooms.SetStatus(ctx, opened.Room.ID, testOwnerID, models.RoomLive))

	_, err = f.answers.SubmitAnswer(ctx, joined.Player.ID, 10, "Paris", 5)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSubmitAnswerUnknownQuestion(t *testing.T) {
	f := newFixture(t, 4)
	_, guest := liveRoom(t, f)

	_, err := f.answers.SubmitAnswer(context.Background(), guest.ID, 999, "Paris", 5)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListQuestionsWithAnsweredFlag(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()
	_, guest := liveRoom(t, f)

	_, err := f.answers.SubmitAnswer(ctx, guest.ID, 10, "Paris", 5)
	require.NoError(t, err)

	views, err := f.answers.ListQuestionsWithAnsweredFlag(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Equal(t, int64(10), views[0].ID)
	assert.True(t, views[0].Answered)
	assert.Equal(t, "Paris", views[0].SubmittedAnswer)

	assert.False(t, views[1].Answered)
	assert.Empty(t, views[1].SubmittedAnswer)
}

func TestQuestionSolvedSetAccumulates(t *testing.T) {
	f := newFixture(t, 4)
	ctx := context.Background()

	opened := openRoom(t, f)
	ownerSeat := opened.Players[0]
	joined, err := f.players.JoinByInviteCode(ctx, opened.Room.InviteCode, "bob", "")
	require.NoError(t, err)
	require.NoError(t, f.players.ApproveAll(ctx, opened.Room.ID, testOwnerID))
	require.NoError(t, f.rooms.SetStatus(ctx, opened.Room.ID, testOwnerID, models.RoomLive))

	_, err = f.answers.SubmitAnswer(ctx, ownerSeat.ID, 10, "Paris", 3)
	require.NoError(t, err)
	_, err = f.answers.SubmitAnswer(ctx, joined.Player.ID, 10, "Rome", 4)
	require.NoError(t, err)

	solved, ok := f.pub.last("question_answered_by")
	require.True(t, ok)
	assert.Equal(t, []int64{ownerSeat.ID, joined.Player.ID}, solved.PlayerIDs)
}
