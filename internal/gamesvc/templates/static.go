package templates

import (
	"context"
	"sort"

	"github.com/quizlive/quiz-services/internal/gamesvc/models"
)

// StaticStore serves templates from memory, for local development and tests.
type StaticStore struct {
	Games     map[int64]*models.Game
	Questions map[int64]*models.Question
}

func NewStaticStore() *StaticStore {
	return &StaticStore{
		Games:     make(map[int64]*models.Game),
		Questions: make(map[int64]*models.Question),
	}
}

func (s *StaticStore) AddGame(g *models.Game) *StaticStore {
	s.Games[g.ID] = g
	return s
}

func (s *StaticStore) AddQuestion(q *models.Question) *StaticStore {
	s.Questions[q.ID] = q
	return s
}

func (s *StaticStore) GetGame(ctx context.Context, gameID int64) (*models.Game, error) {
	return s.Games[gameID], nil
}

func (s *StaticStore) GetQuestion(ctx context.Context, questionID int64) (*models.Question, error) {
	return s.Questions[questionID], nil
}

func (s *StaticStore) ListQuestionsByGame(ctx context.Context, gameID int64) ([]*models.Question, error) {
	var ids []int64
	for id, q := range s.Questions {
		if q.GameID == gameID {
			ids = append(ids, id)
		}
	}
	// authored order
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	questions := make([]*models.Question, 0, len(ids))
	for _, id := range ids {
		questions = append(questions, s.Questions[id])
	}
	return questions, nil
}
