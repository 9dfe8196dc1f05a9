package handlers

import (
	"encoding/json"
	"net/http"
)

// SubmitAnswerHandler records one attempt and returns whether it was
// correct. Duplicates for the same (player, question) pair are rejected
// with a conflict, never overwritten.
func (h *Handler) SubmitAnswerHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID   int64  `json:"player_id"`
		QuestionID int64  `json:"question_id"`
		Answer     string `json:"answer"`
		TimeTaken  int    `json:"time_taken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID <= 0 || req.QuestionID <= 0 {
		h.badRequest(w, "player_id and question_id are required")
		return
	}

	result, err := h.answers.SubmitAnswer(r.Context(), req.PlayerID, req.QuestionID, req.Answer, req.TimeTaken)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "answer recorded", Code: http.StatusOK, Data: result})
}

func (h *Handler) ListAnswersHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := urlParamInt64(r, "playerID")
	if err != nil {
		h.badRequest(w, "invalid player id")
		return
	}

	attempts, err := h.answers.ListForPlayer(r.Context(), playerID)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: attempts})
}

// ListQuestionsHandler returns the room's questions for a player, each
// flagged with the player's own prior submission. Answer keys are withheld.
func (h *Handler) ListQuestionsHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := urlParamInt64(r, "playerID")
	if err != nil {
		h.badRequest(w, "invalid player id")
		return
	}

	questions, err := h.answers.ListQuestionsWithAnsweredFlag(r.Context(), playerID)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: questions})
}
