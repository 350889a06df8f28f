package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pagebound/pagebound/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCannotFriendSelf   = errors.New("cannot send friend request to yourself")
	ErrAlreadyFriends     = errors.New("already friends")
	ErrRequestAlreadySent = errors.New("friend request already sent")
	ErrRequestNotFound    = errors.New("friend request not found")
	ErrRequestNotPending  = errors.New("friend request already processed")
	ErrQueryTooShort      = errors.New("search query must be at least 2 characters")
)

// SearchLimit caps user search results.
const SearchLimit = 20

// FriendService enforces the friend-relationship lifecycle: requests move
// pending -> accepted/rejected, an accepted request materializes as two
// mirrored FriendEdge records, and friendsCount on both users tracks the
// number of edges they own.
type FriendService struct {
	db DB
}

func NewFriendService(db DB) *FriendService {
	return &FriendService{db: db}
}

// ListFriends returns every edge owned by userID. Display fields are
// refreshed from the live user record where one still exists, falling back
// to the snapshot stored on the edge.
func (s *FriendService) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.FriendEdge, error) {
	rows, err := s.db.Query(ctx,
		`SELECT f.user_id, f.friend_user_id, f.status,
		        COALESCE(u.username, f.friend_username),
		        COALESCE(u.display_name, f.friend_display_name),
		        COALESCE(u.avatar_url, f.friend_avatar_url),
		        COALESCE(u.is_private, false),
		        f.created_at
		 FROM friends f
		 LEFT JOIN users u ON u.user_id = f.friend_user_id
		 WHERE f.user_id = $1
		 ORDER BY f.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}
	defer rows.Close()

	var friends []models.FriendEdge
	for rows.Next() {
		var f models.FriendEdge
		if err := rows.Scan(&f.UserID, &f.FriendUserID, &f.Status, &f.FriendUsername,
			&f.FriendDisplayName, &f.FriendAvatarURL, &f.IsPrivate, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning friend: %w", err)
		}
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing friends: %w", err)
	}

	if friends == nil {
		friends = []models.FriendEdge{}
	}
	return friends, nil
}

// ListRequests returns the pending requests addressed to userID and the
// pending requests userID has sent. Terminal requests are history and are
// never listed.
func (s *FriendService) ListRequests(ctx context.Context, userID uuid.UUID) (received, sent []models.FriendRequest, err error) {
	received, err = s.listRequestsBy(ctx, "to_user_id", userID)
	if err != nil {
		return nil, nil, err
	}
	sent, err = s.listRequestsBy(ctx, "from_user_id", userID)
	if err != nil {
		return nil, nil, err
	}
	return received, sent, nil
}

func (s *FriendService) listRequestsBy(ctx context.Context, keyColumn string, userID uuid.UUID) ([]models.FriendRequest, error) {
	rows, err := s.db.Query(ctx,
		`SELECT to_user_id, from_user_id, status, message,
		        from_username, from_display_name, from_avatar_url, created_at
		 FROM friend_requests
		 WHERE `+keyColumn+` = $1 AND status = 'pending'
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing friend requests: %w", err)
	}
	defer rows.Close()

	var requests []models.FriendRequest
	for rows.Next() {
		var r models.FriendRequest
		if err := rows.Scan(&r.ToUserID, &r.FromUserID, &r.Status, &r.Message,
			&r.FromUsername, &r.FromDisplayName, &r.FromAvatarURL, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning friend request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing friend requests: %w", err)
	}

	if requests == nil {
		requests = []models.FriendRequest{}
	}
	return requests, nil
}

// SendRequest resolves toUsername and creates a pending request from
// fromUserID, snapshotting the sender's current display fields. It conflicts
// if an edge already exists between the pair in either direction, or if a
// pending request exists between the pair in either direction. A request
// whose prior record reached a terminal status is overwritten in place.
func (s *FriendService) SendRequest(ctx context.Context, fromUserID uuid.UUID, toUsername, message string) (*models.FriendRequest, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin send request: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	var toUserID uuid.UUID
	err = tx.QueryRow(ctx,
		"SELECT user_id FROM users WHERE username = $1", toUsername,
	).Scan(&toUserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolving username: %w", err)
	}

	if toUserID == fromUserID {
		return nil, ErrCannotFriendSelf
	}

	var alreadyFriends bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM friends
			WHERE (user_id = $1 AND friend_user_id = $2)
			   OR (user_id = $2 AND friend_user_id = $1)
		)`,
		fromUserID, toUserID,
	).Scan(&alreadyFriends)
	if err != nil {
		return nil, fmt.Errorf("checking friendship existence: %w", err)
	}
	if alreadyFriends {
		return nil, ErrAlreadyFriends
	}

	// A pending request in either direction blocks a new one, so a pair can
	// never hold two simultaneous pending requests.
	var pendingExists bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM friend_requests
			WHERE ((to_user_id = $1 AND from_user_id = $2)
			    OR (to_user_id = $2 AND from_user_id = $1))
			  AND status = 'pending'
		)`,
		toUserID, fromUserID,
	).Scan(&pendingExists)
	if err != nil {
		return nil, fmt.Errorf("checking pending request: %w", err)
	}
	if pendingExists {
		return nil, ErrRequestAlreadySent
	}

	var fromUsername, fromDisplayName string
	var fromAvatarURL *string
	err = tx.QueryRow(ctx,
		"SELECT username, display_name, avatar_url FROM users WHERE user_id = $1", fromUserID,
	).Scan(&fromUsername, &fromDisplayName, &fromAvatarURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading sender profile: %w", err)
	}

	request := &models.FriendRequest{}
	err = tx.QueryRow(ctx,
		`INSERT INTO friend_requests
		   (to_user_id, from_user_id, status, message,
		    from_username, from_display_name, from_avatar_url)
		 VALUES ($1, $2, 'pending', $3, $4, $5, $6)
		 ON CONFLICT (to_user_id, from_user_id) DO UPDATE SET
		   status = 'pending',
		   message = EXCLUDED.message,
		   from_username = EXCLUDED.from_username,
		   from_display_name = EXCLUDED.from_display_name,
		   from_avatar_url = EXCLUDED.from_avatar_url,
		   created_at = NOW()
		 RETURNING to_user_id, from_user_id, status, message,
		           from_username, from_display_name, from_avatar_url, created_at`,
		toUserID, fromUserID, message, fromUsername, fromDisplayName, fromAvatarURL,
	).Scan(&request.ToUserID, &request.FromUserID, &request.Status, &request.Message,
		&request.FromUsername, &request.FromDisplayName, &request.FromAvatarURL, &request.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating friend request: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit send request: %w", err)
	}
	committed = true

	return request, nil
}

// AcceptRequest flips the pending request to accepted, inserts both edges
// with current snapshots of the opposite party, and increments both users'
// friendsCount, all in one transaction. The conditional status update is the
// optimistic guard: a second accept finds zero pending rows and fails
// without touching edges or counters.
func (s *FriendService) AcceptRequest(ctx context.Context, toUserID, fromUserID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin accept request: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	tag, err := tx.Exec(ctx,
		`UPDATE friend_requests SET status = 'accepted'
		 WHERE to_user_id = $1 AND from_user_id = $2 AND status = 'pending'`,
		toUserID, fromUserID,
	)
	if err != nil {
		return fmt.Errorf("accepting friend request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.classifyMissingRequest(ctx, tx, toUserID, fromUserID)
	}

	fromUser, err := loadSnapshot(ctx, tx, fromUserID)
	if err != nil {
		return err
	}
	toUser, err := loadSnapshot(ctx, tx, toUserID)
	if err != nil {
		return err
	}

	for _, edge := range []struct {
		owner, other uuid.UUID
		snap         userSnapshot
	}{
		{toUserID, fromUserID, fromUser},
		{fromUserID, toUserID, toUser},
	} {
		_, err = tx.Exec(ctx,
			`INSERT INTO friends
			   (user_id, friend_user_id, status,
			    friend_username, friend_display_name, friend_avatar_url)
			 VALUES ($1, $2, 'accepted', $3, $4, $5)
			 ON CONFLICT (user_id, friend_user_id) DO NOTHING`,
			edge.owner, edge.other, edge.snap.username, edge.snap.displayName, edge.snap.avatarURL,
		)
		if err != nil {
			return fmt.Errorf("creating friend edge: %w", err)
		}
	}

	_, err = tx.Exec(ctx,
		"UPDATE users SET friends_count = friends_count + 1 WHERE user_id IN ($1, $2)",
		toUserID, fromUserID,
	)
	if err != nil {
		return fmt.Errorf("incrementing friend counts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit accept request: %w", err)
	}
	committed = true
	return nil
}

// RejectRequest moves a pending request to rejected, a terminal state. The
// record is kept as history.
func (s *FriendService) RejectRequest(ctx context.Context, toUserID, fromUserID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE friend_requests SET status = 'rejected'
		 WHERE to_user_id = $1 AND from_user_id = $2 AND status = 'pending'`,
		toUserID, fromUserID,
	)
	if err != nil {
		return fmt.Errorf("rejecting friend request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.classifyMissingRequest(ctx, s.db, toUserID, fromUserID)
	}
	return nil
}

// RemoveFriend deletes both edges and decrements both users' friendsCount in
// one transaction. Deleting edges that do not exist is a no-op success; the
// historical request record is untouched.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendUserID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin remove friend: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		`DELETE FROM friends
		 WHERE (user_id = $1 AND friend_user_id = $2)
		    OR (user_id = $2 AND friend_user_id = $1)`,
		userID, friendUserID,
	)
	if err != nil {
		return fmt.Errorf("deleting friend edges: %w", err)
	}

	_, err = tx.Exec(ctx,
		"UPDATE users SET friends_count = GREATEST(friends_count - 1, 0) WHERE user_id IN ($1, $2)",
		userID, friendUserID,
	)
	if err != nil {
		return fmt.Errorf("decrementing friend counts: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit remove friend: %w", err)
	}
	committed = true
	return nil
}

// SearchUsers does a case-insensitive substring match on username, excluding
// the requester and private profiles. Results are capped at SearchLimit.
func (s *FriendService) SearchUsers(ctx context.Context, excludingUserID uuid.UUID, query string) ([]models.UserSummary, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, ErrQueryTooShort
	}

	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := s.db.Query(ctx,
		`SELECT user_id, username, display_name, avatar_url, friends_count
		 FROM users
		 WHERE user_id != $1
		   AND is_private = false
		   AND LOWER(username) LIKE $2
		 ORDER BY username
		 LIMIT $3`,
		excludingUserID, pattern, SearchLimit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}
	defer rows.Close()

	var results []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.UserID, &u.Username, &u.DisplayName, &u.AvatarURL, &u.FriendsCount); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		results = append(results, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("searching users: %w", err)
	}

	if results == nil {
		results = []models.UserSummary{}
	}
	return results, nil
}

// classifyMissingRequest distinguishes a request that never existed from one
// already in a terminal state after a conditional update touched zero rows.
func (s *FriendService) classifyMissingRequest(ctx context.Context, conn DBConn, toUserID, fromUserID uuid.UUID) error {
	var status models.FriendRequestStatus
	err := conn.QueryRow(ctx,
		"SELECT status FROM friend_requests WHERE to_user_id = $1 AND from_user_id = $2",
		toUserID, fromUserID,
	).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrRequestNotFound
	}
	if err != nil {
		return fmt.Errorf("loading friend request: %w", err)
	}
	return ErrRequestNotPending
}

type userSnapshot struct {
	username    string
	displayName string
	avatarURL   *string
}

func loadSnapshot(ctx context.Context, conn DBConn, userID uuid.UUID) (userSnapshot, error) {
	var snap userSnapshot
	err := conn.QueryRow(ctx,
		"SELECT username, display_name, avatar_url FROM users WHERE user_id = $1", userID,
	).Scan(&snap.username, &snap.displayName, &snap.avatarURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return userSnapshot{}, ErrUserNotFound
	}
	if err != nil {
		return userSnapshot{}, fmt.Errorf("loading user snapshot: %w", err)
	}
	return snap, nil
}
