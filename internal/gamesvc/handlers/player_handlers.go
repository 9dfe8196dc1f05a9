package handlers

import (
	"encoding/json"
	"net/http"
)

// JoinHandler admits a guest through an invite code. Public: guests have no
// account, a seat is their identity.
func (h *Handler) JoinHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InviteCode  string `json:"invite_code"`
		DisplayName string `json:"display_name"`
		AvatarURL   string `json:"avatar_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.InviteCode == "" || req.DisplayName == "" {
		h.badRequest(w, "invite_code and display_name are required")
		return
	}

	result, err := h.players.JoinByInviteCode(r.Context(), req.InviteCode, req.DisplayName, req.AvatarURL)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "joined", Code: http.StatusOK, Data: result})
}

func (h *Handler) SetApprovalHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, _, err := callerIdentity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	playerID, err := urlParamInt64(r, "playerID")
	if err != nil {
		h.badRequest(w, "invalid player id")
		return
	}

	var req struct {
		IsApproved bool `json:"is_approved"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "is_approved is required")
		return
	}

	if err := h.players.SetApproval(r.Context(), playerID, ownerID, req.IsApproved); err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "approval updated", Code: http.StatusOK})
}

func (h *Handler) ApproveAllHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := h.players.ApproveAll(r.Context(), roomID, ownerID); err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "all players approved", Code: http.StatusOK})
}

func (h *Handler) RemovePlayerHandler(w http.ResponseWriter, r *http.Request) {
	ownerID, _, err := callerIdentity(r)
	if err != nil {
		h.CreateResponse(w, Response{Code: http.StatusUnauthorized, Error: err.Error()})
		return
	}

	playerID, err := urlParamInt64(r, "playerID")
	if err != nil {
		h.badRequest(w, "invalid player id")
		return
	}

	if err := h.players.RemovePlayer(r.Context(), playerID, ownerID); err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Message: "player removed", Code: http.StatusOK})
}

// ListApprovedHandler returns a room's approved seats to one of its own
// approved players.
func (h *Handler) ListApprovedHandler(w http.ResponseWriter, r *http.Request) {
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

	players, err := h.players.ListApproved(r.Context(), roomID, playerID)
	if err != nil {
		h.ErrorResponse(w, err)
		return
	}

	h.CreateResponse(w, Response{Code: http.StatusOK, Data: players})
}
