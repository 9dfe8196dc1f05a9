package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	"github.com/quizlive/quiz-services/internal/gamesvc/scoring"
	"github.com/quizlive/quiz-services/internal/gamesvc/service"
	"github.com/quizlive/quiz-services/internal/gamesvc/store"
)

type Handler struct {
	tokenAuth   *jwtauth.JWTAuth
	rooms       *service.RoomService
	players     *service.PlayerService
	answers     *service.AnswerService
	leaderboard *service.LeaderboardService
}

func NewHandler(rooms *service.RoomService, players *service.PlayerService,
	answers *service.AnswerService, leaderboard *service.LeaderboardService) *Handler {
	return &Handler{
		rooms:       rooms,
		players:     players,
		answers:     answers,
		leaderboard: leaderboard,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)

	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

// ErrorResponse maps the failure taxonomy to status codes: not-found 404,
// conflict and capacity 409, forbidden 403, bad timing or status 400.
func (h *Handler) ErrorResponse(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrCapacityExceeded):
		code = http.StatusConflict
	case errors.Is(err, service.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, scoring.ErrTooQuick),
		errors.Is(err, scoring.ErrTimeExceeded):
		code = http.StatusBadRequest
	}

	if code == http.StatusInternalServerError {
		log.Errorf("request failed: %s", err)
	}

	h.CreateResponse(w, Response{Code: code, Error: err.Error()})
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	h.CreateResponse(w, Response{Code: http.StatusBadRequest, Error: msg})
}

// callerIdentity pulls the authenticated user id and display name out of the
// verified JWT. The identity service issues the token; this core only reads
// the claims.
func callerIdentity(r *http.Request) (int64, string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return 0, "", err
	}

	raw, ok := claims["user_id"]
	if !ok {
		return 0, "", errors.New("token missing user_id claim")
	}

	var userID int64
	switch v := raw.(type) {
	case float64:
		userID = int64(v)
	case int64:
		userID = v
	case json.Number:
		id, err := v.Int64()
		if err != nil {
			return 0, "", err
		}
		userID = id
	default:
		return 0, "", errors.New("unexpected user_id claim type")
	}

	name, _ := claims["name"].(string)

	return userID, name, nil
}

func urlParamInt64(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}

func queryInt64(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	rsp := Response{
		Message: "game service is running at port " + os.Getenv("GAME_SERVICE_PORT"),
		Code:    200,
		Data:    nil,
	}
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode health response: %v", err)
	}
}
