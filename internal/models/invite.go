package models

import (
	"time"

	"github.com/google/uuid"
)

// InviteLink is a shareable token that lets someone discover its issuer and
// request friendship. A nil ExpiresAt means the link never expires by time;
// a nil MaxUses means unlimited uses.
type InviteLink struct {
	InviteCode uuid.UUID  `json:"inviteCode"`
	UserID     uuid.UUID  `json:"userId"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	MaxUses    *int       `json:"maxUses"`
	UsedCount  int        `json:"usedCount"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// InviteInfo is what resolving an invite code returns: the issuer's public
// summary plus usage counters. UsedCount reports uses prior to this
// resolution.
type InviteInfo struct {
	InviteCode uuid.UUID   `json:"inviteCode"`
	Inviter    UserSummary `json:"inviter"`
	UsedCount  int         `json:"usedCount"`
	MaxUses    *int        `json:"maxUses"`
}
