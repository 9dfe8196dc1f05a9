package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizlive/quiz-services/internal/gamesvc/models"
	"github.com/quizlive/quiz-services/internal/gamesvc/service"
	"github.com/quizlive/quiz-services/internal/gamesvc/store/memory"
	"github.com/quizlive/quiz-services/internal/gamesvc/templates"
)

type nopPublisher struct{}

func (nopPublisher) PlayersChanged(int64, []*models.Player)           {}
func (nopPublisher) RoomStatusChanged(int64, string)                  {}
func (nopPublisher) StandingsChanged(int64, []*models.PlayerStanding) {}
func (nopPublisher) QuestionAnsweredBy(int64, int64, []int64)         {}

// envelope mirrors Response with raw data so each test decodes its own shape.
type envelope struct {
	Message string          `json:"message"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
}

type testServer struct {
	router  *chi.Mux
	handler *Handler
}

func newTestServer(t *testing.T, playerCap int) *testServer {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	st := memory.NewStore()
	tmpl := templates.NewStaticStore()
	tmpl.AddGame(&models.Game{ID: 1, Title: "World Capitals", OwnerID: 7, PlayerCap: playerCap})
	tmpl.AddQuestion(&models.Question{
		ID:           10,
		GameID:       1,
		Text:         "Capital of France?",
		Answer:       "Paris",
		Options:      map[string]string{"a": "Paris", "b": "Rome"},
		TimeLimitSec: 30,
	})

	pub := nopPublisher{}
	leaderboard := service.NewLeaderboardService(st.Rooms, st.Players, st.Answers)
	h := NewHandler(
		service.NewRoomService(st.Rooms, st.Players, tmpl, pub),
		service.NewPlayerService(st.Rooms, st.Players, tmpl, pub),
		service.NewAnswerService(st.Rooms, st.Players, st.Answers, tmpl, leaderboard, pub),
		leaderboard,
	)
	h.InitAuth()

	r := chi.NewRouter()
	h.SetRoutes(r)

	return &testServer{router: r, handler: h}
}

func (s *testServer) token(t *testing.T, userID int64, name string) string {
	t.Helper()
	_, tokenString, err := s.handler.TokenAuth().Encode(map[string]interface{}{
		"user_id": userID,
		"name":    name,
	})
	require.NoError(t, err)
	return tokenString
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestSecuredRoutesRejectAnonymous(t *testing.T) {
	s := newTestServer(t, 2)

	w, _ := s.do(t, http.MethodPost, "/v1/rooms", "", map[string]interface{}{"game_id": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGameFlowEndToEnd(t *testing.T) {
	s := newTestServer(t, 2)
	owner := s.token(t, 7, "alice")

	// owner opens a room
	w, env := s.do(t, http.MethodPost, "/v1/rooms", owner, map[string]interface{}{"game_id": 1})
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	var opened service.OpenedRoom
	require.NoError(t, json.Unmarshal(env.Data, &opened))
	require.Len(t, opened.Players, 1)
	roomID := opened.Room.ID
	roomPath := "/v1/rooms/" + itoa(roomID)

	// two guests join by invite code
	var guestA, guestB service.JoinResult
	for i, out := range []*service.JoinResult{&guestA, &guestB} {
		name := []string{"guestA", "guestB"}[i]
		w, env = s.do(t, http.MethodPost, "/v1/players/join", "", map[string]interface{}{
			"invite_code":  opened.Room.InviteCode,
			"display_name": name,
		})
		require.Equal(t, http.StatusOK, w.Code, env.Error)
		require.NoError(t, json.Unmarshal(env.Data, out))
		assert.Equal(t, roomID, out.RoomID)
	}

	// owner approves everyone and goes live
	w, env = s.do(t, http.MethodPut, roomPath+"/approve-all", owner, nil)
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	w, env = s.do(t, http.MethodPut, roomPath+"/status", owner, map[string]interface{}{"status": "live"})
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	// guest A answers correctly 10s into a 30s window
	w, env = s.do(t, http.MethodPost, "/v1/answers", "", map[string]interface{}{
		"player_id":   guestA.Player.ID,
		"question_id": 10,
		"answer":      "Paris",
		"time_taken":  10,
	})
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	var submitted service.SubmitResult
	require.NoError(t, json.Unmarshal(env.Data, &submitted))
	assert.True(t, submitted.IsCorrect)
	assert.Equal(t, 900, submitted.PointsAwarded)

	// the same pair may never be answered twice
	w, env = s.do(t, http.MethodPost, "/v1/answers", "", map[string]interface{}{
		"player_id":   guestA.Player.ID,
		"question_id": 10,
		"answer":      "Rome",
		"time_taken":  12,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// question listing never leaks the answer key
	w, env = s.do(t, http.MethodGet, "/v1/players/"+itoa(guestB.Player.ID)+"/questions", "", nil)
	require.Equal(t, http.StatusOK, w.Code, env.Error)
	assert.NotContains(t, string(env.Data), `"answer"`)

	// owner closes the game; results rank guest A first
	w, env = s.do(t, http.MethodPut, roomPath+"/status", owner, map[string]interface{}{"status": "finished"})
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	w, env = s.do(t, http.MethodGet, roomPath+"/results?player_id="+itoa(guestA.Player.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code, env.Error)

	var standings []*models.PlayerStanding
	require.NoError(t, json.Unmarshal(env.Data, &standings))
	require.Len(t, standings, 3)
	assert.Equal(t, guestA.Player.ID, standings[0].PlayerID)
	assert.Equal(t, 900, standings[0].Points)
	for _, st := range standings[1:] {
		assert.Less(t, st.Points, standings[0].Points)
	}
}

func TestJoinErrorMapping(t *testing.T) {
	s := newTestServer(t, 1)
	owner := s.token(t, 7, "alice")

	_, env := s.do(t, http.MethodPost, "/v1/rooms", owner, map[string]interface{}{"game_id": 1})
	var opened service.OpenedRoom
	require.NoError(t, json.Unmarshal(env.Data, &opened))

	// unknown code reads as not found
	w, _ := s.do(t, http.MethodPost, "/v1/players/join", "", map[string]interface{}{
		"invite_code":  "0000",
		"display_name": "bob",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// the owner's seat already fills a cap-1 room
	w, _ = s.do(t, http.MethodPost, "/v1/players/join", "", map[string]interface{}{
		"invite_code":  opened.Room.InviteCode,
		"display_name": "bob",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// missing fields are a bad request
	w, _ = s.do(t, http.MethodPost, "/v1/players/join", "", map[string]interface{}{
		"invite_code": opened.Room.InviteCode,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetStatusValidation(t *testing.T) {
	s := newTestServer(t, 2)
	owner := s.token(t, 7, "alice")
	stranger := s.token(t, 8, "mallory")

	_, env := s.do(t, http.MethodPost, "/v1/rooms", owner, map[string]interface{}{"game_id": 1})
	var opened service.OpenedRoom
	require.NoError(t, json.Unmarshal(env.Data, &opened))
	roomPath := "/v1/rooms/" + itoa(opened.Room.ID)

	w, _ := s.do(t, http.MethodPut, roomPath+"/status", stranger, map[string]interface{}{"status": "live"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodPut, roomPath+"/status", owner, map[string]interface{}{"status": "paused"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
