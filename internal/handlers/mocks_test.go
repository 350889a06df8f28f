package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/pagebound/pagebound/internal/models"
)

type mockFriendService struct {
	ListFriendsFunc   func(ctx context.Context, userID uuid.UUID) ([]models.FriendEdge, error)
	ListRequestsFunc  func(ctx context.Context, userID uuid.UUID) ([]models.FriendRequest, []models.FriendRequest, error)
	SendRequestFunc   func(ctx context.Context, fromUserID uuid.UUID, toUsername, message string) (*models.FriendRequest, error)
	AcceptRequestFunc func(ctx context.Context, toUserID, fromUserID uuid.UUID) error
	RejectRequestFunc func(ctx context.Context, toUserID, fromUserID uuid.UUID) error
	RemoveFriendFunc  func(ctx context.Context, userID, friendUserID uuid.UUID) error
	SearchUsersFunc   func(ctx context.Context, excludingUserID uuid.UUID, query string) ([]models.UserSummary, error)
}

func (m *mockFriendService) ListFriends(ctx context.Context, userID uuid.UUID) ([]models.FriendEdge, error) {
	if m.ListFriendsFunc != nil {
		return m.ListFriendsFunc(ctx, userID)
	}
	return []models.FriendEdge{}, nil
}

func (m *mockFriendService) ListRequests(ctx context.Context, userID uuid.UUID) (received, sent []models.FriendRequest, err error) {
	if m.ListRequestsFunc != nil {
		return m.ListRequestsFunc(ctx, userID)
	}
	return []models.FriendRequest{}, []models.FriendRequest{}, nil
}

func (m *mockFriendService) SendRequest(ctx context.Context, fromUserID uuid.UUID, toUsername, message string) (*models.FriendRequest, error) {
	if m.SendRequestFunc != nil {
		return m.SendRequestFunc(ctx, fromUserID, toUsername, message)
	}
	return &models.FriendRequest{}, nil
}

func (m *mockFriendService) AcceptRequest(ctx context.Context, toUserID, fromUserID uuid.UUID) error {
	if m.AcceptRequestFunc != nil {
		return m.AcceptRequestFunc(ctx, toUserID, fromUserID)
	}
	return nil
}

func (m *mockFriendService) RejectRequest(ctx context.Context, toUserID, fromUserID uuid.UUID) error {
	if m.RejectRequestFunc != nil {
		return m.RejectRequestFunc(ctx, toUserID, fromUserID)
	}
	return nil
}

func (m *mockFriendService) RemoveFriend(ctx context.Context, userID, friendUserID uuid.UUID) error {
	if m.RemoveFriendFunc != nil {
		return m.RemoveFriendFunc(ctx, userID, friendUserID)
	}
	return nil
}

func (m *mockFriendService) SearchUsers(ctx context.Context, excludingUserID uuid.UUID, query string) ([]models.UserSummary, error) {
	if m.SearchUsersFunc != nil {
		return m.SearchUsersFunc(ctx, excludingUserID, query)
	}
	return []models.UserSummary{}, nil
}

type mockInviteService struct {
	CreateInviteFunc  func(ctx context.Context, userID uuid.UUID, expiresInDays int, maxUses *int) (*models.InviteLink, error)
	ResolveInviteFunc func(ctx context.Context, inviteCode uuid.UUID) (*models.InviteInfo, error)
}

func (m *mockInviteService) CreateInvite(ctx context.Context, userID uuid.UUID, expiresInDays int, maxUses *int) (*models.InviteLink, error) {
	if m.CreateInviteFunc != nil {
		return m.CreateInviteFunc(ctx, userID, expiresInDays, maxUses)
	}
	return &models.InviteLink{}, nil
}

func (m *mockInviteService) ResolveInvite(ctx context.Context, inviteCode uuid.UUID) (*models.InviteInfo, error) {
	if m.ResolveInviteFunc != nil {
		return m.ResolveInviteFunc(ctx, inviteCode)
	}
	return &models.InviteInfo{}, nil
}

type mockUserService struct {
	CreateProfileFunc  func(ctx context.Context, params models.CreateUserParams) (*models.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*models.User, error)
	GetByIDFunc        func(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateUsernameFunc func(ctx context.Context, email, newUsername string) error
	CheckUsernameFunc  func(ctx context.Context, username string) (bool, error)
	ListAllFunc        func(ctx context.Context) ([]*models.User, error)
	SetAdminFunc       func(ctx context.Context, email string, isAdmin bool) error
}

func (m *mockUserService) CreateProfile(ctx context.Context, params models.CreateUserParams) (*models.User, error) {
	if m.CreateProfileFunc != nil {
		return m.CreateProfileFunc(ctx, params)
	}
	return &models.User{UserID: params.UserID, Email: params.Email, Username: params.Username}, nil
}

func (m *mockUserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID)
	}
	return &models.User{}, nil
}

func (m *mockUserService) UpdateUsername(ctx context.Context, email, newUsername string) error {
	if m.UpdateUsernameFunc != nil {
		return m.UpdateUsernameFunc(ctx, email, newUsername)
	}
	return nil
}

func (m *mockUserService) CheckUsername(ctx context.Context, username string) (bool, error) {
	if m.CheckUsernameFunc != nil {
		return m.CheckUsernameFunc(ctx, username)
	}
	return true, nil
}

func (m *mockUserService) ListAll(ctx context.Context) ([]*models.User, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return []*models.User{}, nil
}

func (m *mockUserService) SetAdmin(ctx context.Context, email string, isAdmin bool) error {
	if m.SetAdminFunc != nil {
		return m.SetAdminFunc(ctx, email, isAdmin)
	}
	return nil
}

type mockEmailService struct {
	SendWelcomeEmailFunc func(ctx context.Context, email, username string) error
}

func (m *mockEmailService) SendWelcomeEmail(ctx context.Context, email, username string) error {
	if m.SendWelcomeEmailFunc != nil {
		return m.SendWelcomeEmailFunc(ctx, email, username)
	}
	return nil
}

type mockIdentityProvider struct {
	ResetPasswordFunc func(ctx context.Context, email string) error
}

func (m *mockIdentityProvider) ResetPassword(ctx context.Context, email string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, email)
	}
	return nil
}
