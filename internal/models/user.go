package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a reader profile. UserID is the immutable subject id assigned by
// the identity provider at signup; Email is unique and never changes.
type User struct {
	UserID       uuid.UUID `json:"userId"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName"`
	AvatarURL    *string   `json:"avatarUrl"`
	Bio          string    `json:"bio,omitempty"`
	IsPrivate    bool      `json:"isPrivate"`
	IsAdmin      bool      `json:"isAdmin"`
	FriendsCount int       `json:"friendsCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateUserParams struct {
	UserID   uuid.UUID
	Email    string
	Username string
	IsAdmin  bool
}

// UserSummary holds the public fields exposed by search and invite lookups.
type UserSummary struct {
	UserID       uuid.UUID `json:"userId"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName"`
	AvatarURL    *string   `json:"avatarUrl"`
	FriendsCount int       `json:"friendsCount"`
}
