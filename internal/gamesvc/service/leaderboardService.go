package service

import (
	"context"
	"sort"
	"time"

	"github.com/quizlive/quiz-services/internal/gamesvc/models"
	"github.com/quizlive/quiz-services/internal/gamesvc/store"
)

type LeaderboardService struct {
	rooms   RoomStore
	players PlayerStore
	answers AnswerStore
}

func NewLeaderboardService(rooms RoomStore, players PlayerStore, answers AnswerStore) *LeaderboardService {
	return &LeaderboardService{rooms: rooms, players: players, answers: answers}
}

// LiveStandings aggregates every player's attempts, correct count and summed
// points, sorted descending by points. The sort is stable over seat order;
// ties keep their incidental ordering.
func (s *LeaderboardService) LiveStandings(ctx context.Context, roomID int64) ([]*models.PlayerStanding, error) {
	players, err := s.players.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return s.aggregate(ctx, roomID, players)
}

// RoomResults is the post-game query: only once the room is finished, only
// for an approved player of the room, and only over approved seats.
func (s *LeaderboardService) RoomResults(ctx context.Context, roomID, requestingPlayerID int64) ([]*models.PlayerStanding, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil || !room.Usable(time.Now(), models.RoomFinished) {
		return nil, store.ErrNotFound
	}

	requester, err := s.players.GetByID(ctx, requestingPlayerID)
	if err != nil {
		return nil, err
	}
	if requester == nil || requester.RoomID != roomID || !requester.IsApproved {
		return nil, ErrForbidden
	}

	players, err := s.players.ListApprovedByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return s.aggregate(ctx, roomID, players)
}

func (s *LeaderboardService) aggregate(ctx context.Context, roomID int64, players []*models.Player) ([]*models.PlayerStanding, error) {
	attempts, err := s.answers.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	byPlayer := make(map[int64]*models.PlayerStanding, len(players))
	standings := make([]*models.PlayerStanding, 0, len(players))
	for _, p := range players {
		st := &models.PlayerStanding{PlayerID: p.ID, DisplayName: p.DisplayName}
		byPlayer[p.ID] = st
		standings = append(standings, st)
	}

	for _, a := range attempts {
		st, ok := byPlayer[a.PlayerID]
		if !ok {
			continue
		}
		st.Attempts++
		if a.IsCorrect {
			st.Correct++
		}
		st.Points += a.PointsAwarded
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Points > standings[j].Points
	})

	return standings, nil
}
