package handlers

import (
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {

		// public routes: guests join and play with a seat id, no account
		r.Get("/health", h.HealthHandler)
		r.Post("/players/join", h.JoinHandler)
		r.Post("/answers", h.SubmitAnswerHandler)
		r.Get("/players/{playerID}/answers", h.ListAnswersHandler)
		r.Get("/players/{playerID}/questions", h.ListQuestionsHandler)
		r.Get("/rooms/{roomID}", h.GetRoomHandler)
		r.Get("/rooms", h.ListRoomsByStatusHandler)
		r.Get("/rooms/{roomID}/players", h.ListApprovedHandler)
		r.Get("/rooms/{roomID}/results", h.RoomResultsHandler)

		// Secure routes: room owners, identified by the JWT user_id claim
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Post("/rooms", h.OpenRoomHandler)
			r.Put("/rooms/{roomID}/status", h.SetRoomStatusHandler)
			r.Delete("/rooms/{roomID}", h.DeleteRoomHandler)
			r.Put("/rooms/{roomID}/approve-all", h.ApproveAllHandler)
			r.Put("/players/{playerID}/approval", h.SetApprovalHandler)
			r.Delete("/players/{playerID}", h.RemovePlayerHandler)
		})
	})
}

func (h *Handler) InitAuth() {
	var jwtKey = os.Getenv("JWT_SECRET_KEY")
	h.tokenAuth = jwtauth.New("HS256", []byte(jwtKey), nil)

	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

	_, tokenString, _ := h.tokenAuth.Encode(map[string]interface{}{
		"service_id": 8003022,
		"exp":        expirationTime,
	})

	// For debugging only, comment it out in production
	log.Infof("DEBUG: JWT for testing expires soon : %s", tokenString)
}

// TokenAuth exposes the verifier so the test suite can mint caller tokens.
func (h *Handler) TokenAuth() *jwtauth.JWTAuth {
	return h.tokenAuth
}
