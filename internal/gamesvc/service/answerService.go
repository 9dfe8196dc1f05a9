package service

import (
	"context"
	"time"

	"github.com/quizlive/quiz-services/internal/gamesvc/broadcast"
	"github.com/quizlive/quiz-services/internal/gamesvc/models"
	"github.com/quizlive/quiz-services/internal/gamesvc/scoring"
	"github.com/quizlive/quiz-services/internal/gamesvc/store"

	log "github.com/sirupsen/logrus"
)

type AnswerService struct {
	rooms       RoomStore
	players     PlayerStore
	answers     AnswerStore
	templates   TemplateStore
	leaderboard *LeaderboardService
	pub         broadcast.Publisher
}

func NewAnswerService(rooms RoomStore, players PlayerStore, answers AnswerStore,
	templates TemplateStore, leaderboard *LeaderboardService, pub broadcast.Publisher) *AnswerService {
	return &AnswerService{
		rooms:       rooms,
		players:     players,
		answers:     answers,
		templates:   templates,
		leaderboard: leaderboard,
		pub:         pub,
	}
}

type SubmitResult struct {
	IsCorrect     bool `json:"is_correct"`
	PointsAwarded int  `json:"points_awarded"`
}

// SubmitAnswer records one attempt for the (player, question) pair:
// unanswered -> recorded, terminal. All validation happens before the write;
// the unique constraint settles concurrent duplicates. Once the row is
// durable the room's standings and the question's solved-set are published;
// a broadcast failure never rolls the write back.
func (s *AnswerService) SubmitAnswer(ctx context.Context, playerID, questionID int64, answer string, timeTaken int) (*SubmitResult, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, store.ErrNotFound
	}

	room, err := s.rooms.GetByID(ctx, player.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil || !room.Usable(time.Now(), models.RoomLive) {
		return nil, store.ErrNotFound
	}

	if !player.IsApproved {
		return nil, ErrForbidden
	}

	question, err := s.templates.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil || question.GameID != room.GameID {
		return nil, store.ErrNotFound
	}

	existing, err := s.answers.GetByPlayerAndQuestion(ctx, playerID, questionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, store.ErrConflict
	}

	if err := scoring.ValidateTiming(question.TimeLimitSec, timeTaken); err != nil {
		return nil, err
	}

	isCorrect := answer == question.Answer
	points := 0
	if isCorrect {
		points = scoring.Points(question.TimeLimitSec, timeTaken)
	}

	attempt := &models.AnswerAttempt{
		PlayerID:        playerID,
		QuestionID:      questionID,
		SubmittedAnswer: answer,
		CorrectAnswer:   question.Answer,
		IsCorrect:       isCorrect,
		TimeLimit:       question.TimeLimitSec,
		TimeTaken:       timeTaken,
		PointsAwarded:   points,
	}

	if _, err := s.answers.Insert(ctx, attempt); err != nil {
		return nil, err
	}

	s.publishLiveUpdates(ctx, room.ID, questionID)

	return &SubmitResult{IsCorrect: isCorrect, PointsAwarded: points}, nil
}

// publishLiveUpdates pushes standings and the question's solved-set. The
// attempt is already durable; failures here are logged and swallowed.
func (s *AnswerService) publishLiveUpdates(ctx context.Context, roomID, questionID int64) {
	standings, err := s.leaderboard.LiveStandings(ctx, roomID)
	if err != nil {
		log.Errorf("Error building standings for room %d: %s", roomID, err)
	} else {
		s.pub.StandingsChanged(roomID, standings)
	}

	playerIDs, err := s.answers.ListPlayerIDsByRoomAndQuestion(ctx, roomID, questionID)
	if err != nil {
		log.Errorf("Error listing solved-set for question %d in room %d: %s", questionID, roomID, err)
		return
	}
	s.pub.QuestionAnsweredBy(roomID, questionID, playerIDs)
}

// ListForPlayer returns the player's recorded attempts.
func (s *AnswerService) ListForPlayer(ctx context.Context, playerID int64) ([]*models.AnswerAttempt, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, store.ErrNotFound
	}

	return s.answers.ListByPlayer(ctx, playerID)
}

// ListQuestionsWithAnsweredFlag returns the room's questions, each flagged
// with whether this player already answered and what they submitted. The
// answer key stays server side.
func (s *AnswerService) ListQuestionsWithAnsweredFlag(ctx context.Context, playerID int64) ([]*models.QuestionView, error) {
	player, err := s.players.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player == nil {
		return nil, store.ErrNotFound
	}

	room, err := s.rooms.GetByID(ctx, player.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil || !room.ExpiredAt.After(time.Now()) {
		return nil, store.ErrNotFound
	}

	questions, err := s.templates.ListQuestionsByGame(ctx, room.GameID)
	if err != nil {
		return nil, err
	}

	attempts, err := s.answers.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	answered := make(map[int64]*models.AnswerAttempt, len(attempts))
	for _, a := range attempts {
		answered[a.QuestionID] = a
	}

	views := make([]*models.QuestionView, 0, len(questions))
	for _, q := range questions {
		v := &models.QuestionView{
			ID:           q.ID,
			Text:         q.Text,
			Options:      q.Options,
			TimeLimitSec: q.TimeLimitSec,
			Source:       q.Source,
			MediaURL:     q.MediaURL,
		}
		if a, ok := answered[q.ID]; ok {
			v.Answered = true
			v.SubmittedAnswer = a.SubmittedAnswer
		}
		views = append(views, v)
	}

	return views, nil
}
