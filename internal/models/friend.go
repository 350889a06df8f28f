package models

import (
	"time"

	"github.com/google/uuid"
)

type FriendRequestStatus string

const (
	FriendRequestStatusPending  FriendRequestStatus = "pending"
	FriendRequestStatusAccepted FriendRequestStatus = "accepted"
	FriendRequestStatusRejected FriendRequestStatus = "rejected"
)

// FriendEdge is one direction of an established friendship, keyed by
// (UserID, FriendUserID). A friendship always exists as two mirrored edges.
// The Friend* fields are snapshots of the other user taken when the edge was
// created; ListFriends refreshes them from the live User record when it can.
type FriendEdge struct {
	UserID            uuid.UUID `json:"userId"`
	FriendUserID      uuid.UUID `json:"friendUserId"`
	Status            string    `json:"status"`
	FriendUsername    string    `json:"friendUsername"`
	FriendDisplayName string    `json:"friendDisplayName"`
	FriendAvatarURL   *string   `json:"friendAvatarUrl"`
	IsPrivate         bool      `json:"isPrivate"`
	CreatedAt         time.Time `json:"createdAt"`
}

// FriendRequest is a proposal to establish a friendship, keyed by
// (ToUserID, FromUserID). Status moves pending -> accepted or rejected and
// never leaves a terminal state; records are kept as history and only
// overwritten by a fresh request after reaching a terminal status.
type FriendRequest struct {
	ToUserID        uuid.UUID           `json:"toUserId"`
	FromUserID      uuid.UUID           `json:"fromUserId"`
	Status          FriendRequestStatus `json:"status"`
	Message         string              `json:"message"`
	FromUsername    string              `json:"fromUsername"`
	FromDisplayName string              `json:"fromDisplayName"`
	FromAvatarURL   *string             `json:"fromAvatarUrl"`
	CreatedAt       time.Time           `json:"createdAt"`
}
