package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pagebound/pagebound/internal/services"
)

type InviteHandler struct {
	inviteService services.InviteServiceInterface
	baseURL       string
}

func NewInviteHandler(inviteService services.InviteServiceInterface, baseURL string) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
		baseURL:       baseURL,
	}
}

type CreateInviteRequest struct {
	ExpiresInDays int  `json:"expiresInDays"`
	MaxUses       *int `json:"maxUses"`
}

type CreateInviteResponse struct {
	InviteCode string     `json:"inviteCode"`
	InviteURL  string     `json:"inviteUrl"`
	ExpiresAt  *time.Time `json:"expiresAt"`
}

func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	// Body is optional; an empty body means no expiry and unlimited uses.
	var req CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	invite, err := h.inviteService.CreateInvite(r.Context(), userID, req.ExpiresInDays, req.MaxUses)
	if err != nil {
		log.Printf("Error creating invite: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CreateInviteResponse{
		InviteCode: invite.InviteCode.String(),
		InviteURL:  h.baseURL + "/invite/" + invite.InviteCode.String(),
		ExpiresAt:  invite.ExpiresAt,
	})
}

func (h *InviteHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	inviteCode, err := uuid.Parse(r.PathValue("inviteCode"))
	if err != nil {
		// Malformed codes are indistinguishable from unknown ones.
		writeError(w, http.StatusNotFound, "Invite not found or expired")
		return
	}

	info, err := h.inviteService.ResolveInvite(r.Context(), inviteCode)
	if errors.Is(err, services.ErrInviteNotFound) {
		writeError(w, http.StatusNotFound, "Invite not found or expired")
		return
	}
	if errors.Is(err, services.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "Invite not found or expired")
		return
	}
	if errors.Is(err, services.ErrInviteMaxUses) {
		writeError(w, http.StatusBadRequest, "Invite link has reached maximum uses")
		return
	}
	if err != nil {
		log.Printf("Error resolving invite: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, info)
}
