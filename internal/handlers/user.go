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

type UserHandler struct {
	userService     services.UserServiceInterface
	emailService    services.EmailServiceInterface
	identity        services.IdentityProvider
	superAdminEmail string
}

func NewUserHandler(userService services.UserServiceInterface, emailService services.EmailServiceInterface, identity services.IdentityProvider, superAdminEmail string) *UserHandler {
	return &UserHandler{
		userService:     userService,
		emailService:    emailService,
		identity:        identity,
		superAdminEmail: superAdminEmail,
	}
}

type CreateProfileRequest struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

type UpdateUsernameRequest struct {
	Username string `json:"username"`
}

type CheckUsernameResponse struct {
	Available bool `json:"available"`
}

type SetAdminRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

type ResetPasswordRequest struct {
	Email string `json:"email"`
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Username == "" {
		writeError(w, http.StatusBadRequest, "email and username are required")
		return
	}

	// The user ID is the identity provider's subject; generate one only for
	// callers that have not been through the provider (local dev).
	userID := uuid.New()
	if req.UserID != "" {
		parsed, err := uuid.Parse(req.UserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid user ID")
			return
		}
		userID = parsed
	}

	user, err := h.userService.CreateProfile(r.Context(), models.CreateUserParams{
		UserID:   userID,
		Email:    req.Email,
		Username: req.Username,
		IsAdmin:  req.IsAdmin,
	})
	if errors.Is(err, services.ErrEmailAlreadyExists) {
		writeError(w, http.StatusBadRequest, "Email already exists")
		return
	}
	if errors.Is(err, services.ErrUsernameTaken) {
		writeError(w, http.StatusBadRequest, "Username already taken")
		return
	}
	if err != nil {
		log.Printf("Error creating user profile: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Welcome email is best effort; a mail outage must not fail signup.
	if err := h.emailService.SendWelcomeEmail(r.Context(), user.Email, user.Username); err != nil {
		log.Printf("Error sending welcome email to %s: %v", user.Email, err)
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "User profile created successfully"})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	user, err := h.userService.GetByEmail(r.Context(), email)
	if errors.Is(err, services.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Printf("Error getting user: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateUsername(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")

	var req UpdateUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}

	err := h.userService.UpdateUsername(r.Context(), email, req.Username)
	if errors.Is(err, services.ErrUsernameTaken) {
		writeError(w, http.StatusBadRequest, "Username already taken")
		return
	}
	if errors.Is(err, services.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Printf("Error updating username: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Username updated successfully"})
}

func (h *UserHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	available, err := h.userService.CheckUsername(r.Context(), username)
	if err != nil {
		log.Printf("Error checking username: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, CheckUsernameResponse{Available: available})
}

func (h *UserHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListAll(r.Context())
	if err != nil {
		log.Printf("Error listing users: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if users == nil {
		users = []*models.User{}
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) AdminSetAdmin(w http.ResponseWriter, r *http.Request) {
	email := r.PathValue("email")
	if h.superAdminEmail != "" && email == h.superAdminEmail {
		writeError(w, http.StatusForbidden, "Cannot modify the super admin")
		return
	}

	var req SetAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.userService.SetAdmin(r.Context(), email, req.IsAdmin)
	if errors.Is(err, services.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		log.Printf("Error setting admin flag: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Admin status updated"})
}

func (h *UserHandler) AdminResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.identity.ResetPassword(r.Context(), req.Email); err != nil {
		log.Printf("Error requesting password reset: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Password reset email sent"})
}
