package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pagebound/pagebound/internal/models"
	"github.com/pagebound/pagebound/internal/services"
)

func newCreateInviteRequest(userID uuid.UUID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/friends/"+userID.String()+"/invite", strings.NewReader(body))
	req.SetPathValue("userId", userID.String())
	return req
}

func TestInviteHandler_Create_Success(t *testing.T) {
	userID := uuid.New()
	code := uuid.New()
	expiry := time.Now().Add(30 * 24 * time.Hour)
	svc := &mockInviteService{
		CreateInviteFunc: func(ctx context.Context, id uuid.UUID, expiresInDays int, maxUses *int) (*models.InviteLink, error) {
			if id != userID || expiresInDays != 30 {
				t.Fatalf("unexpected args: %v %d", id, expiresInDays)
			}
			if maxUses == nil || *maxUses != 5 {
				t.Fatalf("unexpected maxUses: %v", maxUses)
			}
			return &models.InviteLink{InviteCode: code, UserID: id, ExpiresAt: &expiry}, nil
		},
	}
	h := NewInviteHandler(svc, "https://pagebound.app")

	rr := httptest.NewRecorder()
	h.Create(rr, newCreateInviteRequest(userID, `{"expiresInDays":30,"maxUses":5}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var response CreateInviteResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.InviteCode != code.String() {
		t.Fatalf("unexpected code: %s", response.InviteCode)
	}
	if response.InviteURL != "https://pagebound.app/invite/"+code.String() {
		t.Fatalf("unexpected url: %s", response.InviteURL)
	}
	if response.ExpiresAt == nil {
		t.Fatal("expected expiry in response")
	}
}

func TestInviteHandler_Create_EmptyBody(t *testing.T) {
	svc := &mockInviteService{
		CreateInviteFunc: func(ctx context.Context, id uuid.UUID, expiresInDays int, maxUses *int) (*models.InviteLink, error) {
			if expiresInDays != 0 || maxUses != nil {
				t.Fatalf("expected defaults, got %d %v", expiresInDays, maxUses)
			}
			return &models.InviteLink{InviteCode: uuid.New()}, nil
		},
	}
	h := NewInviteHandler(svc, "https://pagebound.app")

	rr := httptest.NewRecorder()
	h.Create(rr, newCreateInviteRequest(uuid.New(), ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestInviteHandler_Create_InvalidUserID(t *testing.T) {
	h := NewInviteHandler(&mockInviteService{}, "https://pagebound.app")

	req := httptest.NewRequest(http.MethodPost, "/friends/nope/invite", strings.NewReader(""))
	req.SetPathValue("userId", "nope")
	rr := httptest.NewRecorder()
	h.Create(rr, req)

	assertErrorResponse(t, rr, http.StatusBadRequest, "Invalid user ID")
}

func newResolveInviteRequest(code string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/friends/"+uuid.New().String()+"/invite/"+code, nil)
	req.SetPathValue("inviteCode", code)
	return req
}

func TestInviteHandler_Resolve_Success(t *testing.T) {
	code := uuid.New()
	inviterID := uuid.New()
	svc := &mockInviteService{
		ResolveInviteFunc: func(ctx context.Context, inviteCode uuid.UUID) (*models.InviteInfo, error) {
			if inviteCode != code {
				t.Fatalf("unexpected code: %v", inviteCode)
			}
			return &models.InviteInfo{
				InviteCode: code,
				Inviter:    models.UserSummary{UserID: inviterID, Username: "alice"},
				UsedCount:  2,
			}, nil
		},
	}
	h := NewInviteHandler(svc, "https://pagebound.app")

	rr := httptest.NewRecorder()
	h.Resolve(rr, newResolveInviteRequest(code.String()))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var response models.InviteInfo
	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if response.Inviter.Username != "alice" || response.UsedCount != 2 {
		t.Fatalf("unexpected response: %+v", response)
	}
}

func TestInviteHandler_Resolve_NotFound(t *testing.T) {
	svc := &mockInviteService{
		ResolveInviteFunc: func(ctx context.Context, inviteCode uuid.UUID) (*models.InviteInfo, error) {
			return nil, services.ErrInviteNotFound
		},
	}
	h := NewInviteHandler(svc, "https://pagebound.app")

	rr := httptest.NewRecorder()
	h.Resolve(rr, newResolveInviteRequest(uuid.New().String()))

	assertErrorResponse(t, rr, http.StatusNotFound, "Invite not found or expired")
}

func TestInviteHandler_Resolve_MalformedCode(t *testing.T) {
	called := false
	svc := &mockInviteService{
		ResolveInviteFunc: func(ctx context.Context, inviteCode uuid.UUID) (*models.InviteInfo, error) {
			called = true
			return nil, nil
		},
	}
	h := NewInviteHandler(svc, "https://pagebound.app")

	rr := httptest.NewRecorder()
	h.Resolve(rr, newResolveInviteRequest("not-a-code"))

	assertErrorResponse(t, rr, http.StatusNotFound, "Invite not found or expired")
	if called {
		t.Fatal("expected no service call for malformed code")
	}
}

func TestInviteHandler_Resolve_MaxUses(t *testing.T) {
	svc := &mockInviteService{
		ResolveInviteFunc: func(ctx context.Context, inviteCode uuid.UUID) (*models.InviteInfo, error) {
			return nil, services.ErrInviteMaxUses
		},
	}
	h := NewInviteHandler(svc, "https://pagebound.app")

	rr := httptest.NewRecorder()
	h.Resolve(rr, newResolveInviteRequest(uuid.New().String()))

	assertErrorResponse(t, rr, http.StatusBadRequest, "Invite link has reached maximum uses")
}
