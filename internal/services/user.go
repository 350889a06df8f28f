package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pagebound/pagebound/internal/models"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUsernameTaken      = errors.New("username already taken")
)

// UserService owns the user-profile records the friendship directory reads
// from. Identity (signup, login, password) lives with the external identity
// provider; this service only keeps the profile row it projects into.
type UserService struct {
	db DB
}

func NewUserService(db DB) *UserService {
	return &UserService{db: db}
}

// CreateProfile inserts the profile row for a freshly confirmed signup.
// Email and username are both globally unique.
func (s *UserService) CreateProfile(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create profile: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", params.Email,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking email existence: %w", err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", params.Username,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking username existence: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	user := &models.User{}
	err = tx.QueryRow(ctx,
		`INSERT INTO users
		   (user_id, email, username, display_name, bio, is_private, is_admin, friends_count)
		 VALUES ($1, $2, $3, $3, '', false, $4, 0)
		 RETURNING user_id, email, username, display_name, avatar_url, bio,
		           is_private, is_admin, friends_count, created_at, updated_at`,
		params.UserID, params.Email, params.Username, params.IsAdmin,
	).Scan(&user.UserID, &user.Email, &user.Username, &user.DisplayName, &user.AvatarURL,
		&user.Bio, &user.IsPrivate, &user.IsAdmin, &user.FriendsCount,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating user profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create profile: %w", err)
	}
	committed = true

	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getBy(ctx, "email", email)
}

func (s *UserService) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.getBy(ctx, "user_id", userID)
}

func (s *UserService) getBy(ctx context.Context, keyColumn string, key any) (*models.User, error) {
	user := &models.User{}
	err := s.db.QueryRow(ctx,
		`SELECT user_id, email, username, display_name, avatar_url, bio,
		        is_private, is_admin, friends_count, created_at, updated_at
		 FROM users WHERE `+keyColumn+` = $1`,
		key,
	).Scan(&user.UserID, &user.Email, &user.Username, &user.DisplayName, &user.AvatarURL,
		&user.Bio, &user.IsPrivate, &user.IsAdmin, &user.FriendsCount,
		&user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

// UpdateUsername changes the mutable username, keeping the global
// uniqueness invariant.
func (s *UserService) UpdateUsername(ctx context.Context, email, newUsername string) error {
	var taken bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND email != $2)",
		newUsername, email,
	).Scan(&taken)
	if err != nil {
		return fmt.Errorf("checking username availability: %w", err)
	}
	if taken {
		return ErrUsernameTaken
	}

	tag, err := s.db.Exec(ctx,
		"UPDATE users SET username = $1, updated_at = NOW() WHERE email = $2",
		newUsername, email,
	)
	if err != nil {
		return fmt.Errorf("updating username: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CheckUsername reports whether a username is still available.
func (s *UserService) CheckUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking username: %w", err)
	}
	return !exists, nil
}

// ListAll returns every user record. Admin surface; unbounded.
func (s *UserService) ListAll(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT user_id, email, username, display_name, avatar_url, bio,
		        is_private, is_admin, friends_count, created_at, updated_at
		 FROM users ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.UserID, &user.Email, &user.Username, &user.DisplayName,
			&user.AvatarURL, &user.Bio, &user.IsPrivate, &user.IsAdmin, &user.FriendsCount,
			&user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// SetAdmin grants or revokes the admin flag.
func (s *UserService) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE users SET is_admin = $1, updated_at = NOW() WHERE email = $2",
		isAdmin, email,
	)
	if err != nil {
		return fmt.Errorf("updating admin status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
