package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/pagebound/pagebound/internal/models"
)

// UserServiceInterface defines the contract for user profile operations.
type UserServiceInterface interface {
	CreateProfile(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateUsername(ctx context.Context, email, newUsername string) error
	CheckUsername(ctx context.Context, username string) (bool, error)
	ListAll(ctx context.Context) ([]*models.User, error)
	SetAdmin(ctx context.Context, email string, isAdmin bool) error
}

// FriendServiceInterface defines the contract for friendship operations.
type FriendServiceInterface interface {
	ListFriends(ctx context.Context, userID uuid.UUID) ([]models.FriendEdge, error)
	ListRequests(ctx context.Context, userID uuid.UUID) (received, sent []models.FriendRequest, err error)
	SendRequest(ctx context.Context, fromUserID uuid.UUID, toUsername, message string) (*models.FriendRequest, error)
	AcceptRequest(ctx context.Context, toUserID, fromUserID uuid.UUID) error
	RejectRequest(ctx context.Context, toUserID, fromUserID uuid.UUID) error
	RemoveFriend(ctx context.Context, userID, friendUserID uuid.UUID) error
	SearchUsers(ctx context.Context, excludingUserID uuid.UUID, query string) ([]models.UserSummary, error)
}

// InviteServiceInterface defines the contract for invite link operations.
type InviteServiceInterface interface {
	CreateInvite(ctx context.Context, userID uuid.UUID, expiresInDays int, maxUses *int) (*models.InviteLink, error)
	ResolveInvite(ctx context.Context, inviteCode uuid.UUID) (*models.InviteInfo, error)
}

// EmailServiceInterface defines the contract for email operations.
type EmailServiceInterface interface {
	SendWelcomeEmail(ctx context.Context, email, username string) error
}
