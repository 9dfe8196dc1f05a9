package handlers

import (
	"encoding/json"
	"net/http"
)

// OpenRoomHandler opens (or idempotently re-opens) the caller's room for a
// game and returns it with its invite code and seats.
func (h *Handler) OpenRoomHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, ownerName, err := callerIdentity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	var req struct {
		GameID int64 `json:"game_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GameID <= 0 {
		h.badRequest(w, "game_id is required")
		return
	}

	opened, err := h.rooms.OpenRoom(r.Context(), req.GameID, ownerID, ownerName)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "room open", Code: http.StatusOK, Data: opened})
}

func (h *Handler) SetRoomStatusHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, _, err := callerIdentity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	roomID, err := urlParamInt64(r, "roomID")
	if err != nil {
		h.badRequest(w, "invalid room id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "status is required")
		return
	}

	if err := h.rooms.SetStatus(r.Context(), roomID, ownerID, req.Status); err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "status updated", Code: http.StatusOK})
}

func (h *Handler) DeleteRoomHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, _, err := callerIdentity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	roomID, err := urlParamInt64(r, "roomID")
	if err != nil {
		h.badRequest(w, "invalid room id")
		return
	}

	if err := h.rooms.DeleteRoom(r.Context(), roomID, ownerID); err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "room deleted", Code: http.StatusOK})
}

func (h *Handler) GetRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := urlParamInt64(r, "roomID")
	if err != nil {
		h.badRequest(w, "invalid room id")
		return
	}

	room, err := h.rooms.GetRoom(r.Context(), roomID)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: room})
}

func (h *Handler) ListRoomsByStatusHandler(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	rooms, err := h.rooms.ListByStatus(r.Context(), status)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: rooms})
}

// RoomResultsHandler is the post-game standings query, gated on the room
// being finished and the caller being an approved player.
func (h *Handler) RoomResultsHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := urlParamInt64(r, "roomID")
	if err != nil {
		h.badRequest(w, "invalid room id")
		return
	}

	playerID, err := queryInt64(r, "player_id")
	if err != nil {
		h.badRequest(w, "player_id is required")
		return
	}

	standings, err := h.leaderboard.RoomResults(r.Context(), roomID, playerID)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: standings})
}
