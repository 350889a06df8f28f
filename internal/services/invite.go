package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pagebound/pagebound/internal/models"
)

var (
	ErrInviteNotFound = errors.New("invite not found or expired")
	ErrInviteMaxUses  = errors.New("invite link has reached maximum uses")
)

// InviteService issues and resolves shareable invite links. Codes are opaque
// UUIDs looked up by primary key; a link stops resolving once revoked by
// time expiry or once its use counter reaches maxUses.
type InviteService struct {
	db  DB
	now func() time.Time
}

func NewInviteService(db DB) *InviteService {
	return &InviteService{db: db, now: time.Now}
}

// CreateInvite generates a globally-unique code for userID. expiresInDays,
// when positive, fixes an absolute expiry; maxUses, when non-nil, caps
// redemptions.
func (s *InviteService) CreateInvite(ctx context.Context, userID uuid.UUID, expiresInDays int, maxUses *int) (*models.InviteLink, error) {
	code := uuid.New()

	var expiresAt *time.Time
	if expiresInDays > 0 {
		t := s.now().Add(time.Duration(expiresInDays) * 24 * time.Hour)
		expiresAt = &t
	}

	invite := &models.InviteLink{}
	err := s.db.QueryRow(ctx,
		`INSERT INTO invite_links (invite_code, user_id, expires_at, max_uses, used_count)
		 VALUES ($1, $2, $3, $4, 0)
		 RETURNING invite_code, user_id, expires_at, max_uses, used_count, created_at`,
		code, userID, expiresAt, maxUses,
	).Scan(&invite.InviteCode, &invite.UserID, &invite.ExpiresAt, &invite.MaxUses,
		&invite.UsedCount, &invite.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating invite: %w", err)
	}

	return invite, nil
}

// ResolveInvite looks up a code and returns the issuer's public summary with
// usage counters. An expired code resolves as not found; a code at its use
// cap fails with ErrInviteMaxUses. Each successful resolution consumes one
// use; the row lock on the invite keeps concurrent resolutions from slipping
// past maxUses. The returned UsedCount is the count before this use.
func (s *InviteService) ResolveInvite(ctx context.Context, inviteCode uuid.UUID) (*models.InviteInfo, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin resolve invite: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	var inviterID uuid.UUID
	var expiresAt *time.Time
	var maxUses *int
	var usedCount int
	err = tx.QueryRow(ctx,
		`SELECT user_id, expires_at, max_uses, used_count
		 FROM invite_links WHERE invite_code = $1
		 FOR UPDATE`,
		inviteCode,
	).Scan(&inviterID, &expiresAt, &maxUses, &usedCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading invite: %w", err)
	}

	if expiresAt != nil && s.now().After(*expiresAt) {
		return nil, ErrInviteNotFound
	}
	if maxUses != nil && usedCount >= *maxUses {
		return nil, ErrInviteMaxUses
	}

	var inviter models.UserSummary
	err = tx.QueryRow(ctx,
		`SELECT user_id, username, display_name, avatar_url, friends_count
		 FROM users WHERE user_id = $1`,
		inviterID,
	).Scan(&inviter.UserID, &inviter.Username, &inviter.DisplayName,
		&inviter.AvatarURL, &inviter.FriendsCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading inviter: %w", err)
	}

	_, err = tx.Exec(ctx,
		"UPDATE invite_links SET used_count = used_count + 1 WHERE invite_code = $1",
		inviteCode,
	)
	if err != nil {
		return nil, fmt.Errorf("consuming invite use: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit resolve invite: %w", err)
	}
	committed = true

	return &models.InviteInfo{
		InviteCode: inviteCode,
		Inviter:    inviter,
		UsedCount:  usedCount,
		MaxUses:    maxUses,
	}, nil
}
