package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/pagebound/pagebound/internal/models"
	"github.com/pagebound/pagebound/internal/services"
)

type FriendHandler struct {
	friendService services.FriendServiceInterface
}

func NewFriendHandler(friendService services.FriendServiceInterface) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

type SendRequestRequest struct {
	ToUsername string `json:"toUsername"`
	Message    string `json:"message"`
}

type RespondRequestRequest struct {
	Action string `json:"action"`
}

type FriendListResponse struct {
	Friends []models.FriendEdge `json:"friends"`
	Count   int                 `json:"count"`
}

type RequestListResponse struct {
	Received []models.FriendRequest `json:"received"`
	Sent     []models.FriendRequest `json:"sent"`
}

type UserSearchResponse struct {
	Users []models.UserSummary `json:"users"`
}

func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	friends, err := h.friendService.ListFriends(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing friends: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if friends == nil {
		friends = []models.FriendEdge{}
	}

	writeJSON(w, http.StatusOK, FriendListResponse{
		Friends: friends,
		Count:   len(friends),
	})
}

func (h *FriendHandler) Requests(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	received, sent, err := h.friendService.ListRequests(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing friend requests: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if received == nil {
		received = []models.FriendRequest{}
	}
	if sent == nil {
		sent = []models.FriendRequest{}
	}

	writeJSON(w, http.StatusOK, RequestListResponse{
		Received: received,
		Sent:     sent,
	})
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req SendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ToUsername == "" {
		writeError(w, http.StatusBadRequest, "toUsername is required")
		return
	}

	_, err = h.friendService.SendRequest(r.Context(), userID, req.ToUsername, req.Message)
	if errors.Is(err, services.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if errors.Is(err, services.ErrCannotFriendSelf) {
		writeError(w, http.StatusBadRequest, "Cannot send friend request to yourself")
		return
	}
	if errors.Is(err, services.ErrAlreadyFriends) {
		writeError(w, http.StatusBadRequest, "Already friends")
		return
	}
	if errors.Is(err, services.ErrRequestAlreadySent) {
		writeError(w, http.StatusBadRequest, "Friend request already sent")
		return
	}
	if err != nil {
		log.Printf("Error sending friend request: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Friend request sent successfully"})
}

func (h *FriendHandler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	fromUserID, err := uuid.Parse(r.PathValue("fromUserId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req RespondRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.Action {
	case "accept":
		err = h.friendService.AcceptRequest(r.Context(), userID, fromUserID)
	case "reject":
		err = h.friendService.RejectRequest(r.Context(), userID, fromUserID)
	default:
		writeError(w, http.StatusBadRequest, `Invalid action. Use "accept" or "reject"`)
		return
	}

	if errors.Is(err, services.ErrRequestNotFound) {
		writeError(w, http.StatusNotFound, "Friend request not found")
		return
	}
	if errors.Is(err, services.ErrRequestNotPending) {
		writeError(w, http.StatusBadRequest, "Friend request already processed")
		return
	}
	if err != nil {
		log.Printf("Error responding to friend request: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	message := "Friend request accepted"
	if req.Action == "reject" {
		message = "Friend request rejected"
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: message})
}

func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	friendUserID, err := uuid.Parse(r.PathValue("friendUserId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.friendService.RemoveFriend(r.Context(), userID, friendUserID); err != nil {
		log.Printf("Error removing friend: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Friend removed successfully"})
}

func (h *FriendHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	query := r.URL.Query().Get("q")
	users, err := h.friendService.SearchUsers(r.Context(), userID, query)
	if errors.Is(err, services.ErrQueryTooShort) {
		writeError(w, http.StatusBadRequest, "Search query must be at least 2 characters")
		return
	}
	if err != nil {
		log.Printf("Error searching users: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if users == nil {
		users = []models.UserSummary{}
	}

	writeJSON(w, http.StatusOK, UserSearchResponse{Users: users})
}

func parseUserID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("userId"))
}
