package service

import (
	"sync"
	"testing"

	"github.com/quizlive/quiz-services/internal/gamesvc/models"
	"github.com/quizlive/quiz-services/internal/gamesvc/store/memory"
	"github.com/quizlive/quiz-services/internal/gamesvc/templates"
)

const (
	testGameID  = int64(1)
	testOwnerID = int64(7)
)

// recorderPub captures published events so tests can assert on the
// broadcast side effects without a transport.
type recorderPub struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	Type       string
	RoomID     int64
	QuestionID int64
	Status     string
	Players    []*models.Player
	Standings  []*models.PlayerStanding
	PlayerIDs  []int64
}

func (r *recorderPub) PlayersChanged(roomID int64, players []*models.Player) {
	r.record(recordedEvent{Type: "players_changed", RoomID: roomID, Players: players})
}

func (r *recorderPub) RoomStatusChanged(roomID int64, status string) {
	r.record(recordedEvent{Type: "room_status_changed", RoomID: roomID, Status: status})
}

func (r *recorderPub) StandingsChanged(roomID int64, standings []*models.PlayerStanding) {
	r.record(recordedEvent{Type: "standings_changed", RoomID: roomID, Standings: standings})
}

func (r *recorderPub) QuestionAnsweredBy(roomID, questionID int64, playerIDs []int64) {
	r.record(recordedEvent{Type: "question_answered_by", RoomID: roomID, QuestionID: questionID, PlayerIDs: playerIDs})
}

func (r *recorderPub) record(e recordedEvent) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorderPub) byType(eventType string) []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedEvent
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorderPub) last(eventType string) (recordedEvent, bool) {
	matches := r.byType(eventType)
	if len(matches) == 0 {
		return recordedEvent{}, false
	}
	return matches[len(matches)-1], true
}

type fixture struct {
	store       *memory.Store
	templates   *templates.StaticStore
	pub         *recorderPub
	rooms       *RoomService
	players     *PlayerService
	answers     *AnswerService
	leaderboard *LeaderboardService
}

// newFixture wires the services over the in-memory store with one game
// template of the given player cap and two questions (30s and 60s limits).
func newFixture(t *testing.T, playerCap int) *fixture {
	t.Helper()

	st := memory.NewStore()
	tmpl := templates.NewStaticStore()
	tmpl.AddGame(&models.Game{ID: testGameID, Title: "World Capitals", OwnerID: testOwnerID, PlayerCap: playerCap})
	tmpl.AddQuestion(&models.Question{
		ID:     10,
		GameID: testGameID,
		Text:   "Capital of France?",
		Answer: "Paris",
		Options: map[string]string{
			"a": "Paris",
			"b": "Rome",
			"c": "Lisbon",
		},
		TimeLimitSec: 30,
	})
	tmpl.AddQuestion(&models.Question{
		ID:           11,
		GameID:       testGameID,
		Text:         "Capital of Japan?",
		Answer:       "Tokyo",
		Options:      map[string]string{"a": "Kyoto", "b": "Tokyo"},
		TimeLimitSec: 60,
	})

	pub := &recorderPub{}
	leaderboard := NewLeaderboardService(st.Rooms, st.Players, st.Answers)

	return &fixture{
		store:       st,
		templates:   tmpl,
		pub:         pub,
		rooms:       NewRoomService(st.Rooms, st.Players, tmpl, pub),
		players:     NewPlayerService(st.Rooms, st.Players, tmpl, pub),
		answers:     NewAnswerService(st.Rooms, st.Players, st.Answers, tmpl, leaderboard, pub),
		leaderboard: leaderboard,
	}
}
