package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/folio/backend/internal/model"
	"github.com/folio/backend/internal/repository"
	"github.com/folio/backend/internal/service"
	"github.com/folio/backend/pkg/auth"
)

// ---------------------------------------------------------------------------
// Mock ContactService
// ---------------------------------------------------------------------------

type mockContactService struct {
	submitFunc       func(ctx context.Context, msg *model.ContactMessage) error
	listFunc         func(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error)
	updateStatusFunc func(ctx context.Context, id, status string) (*model.ContactMessage, error)
}

func (m *mockContactService) Submit(ctx context.Context, msg *model.ContactMessage) error {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, msg)
	}
	return nil
}

func (m *mockContactService) List(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockContactService) UpdateStatus(ctx context.Context, id, status string) (*model.ContactMessage, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// POST /api/contact tests
// ---------------------------------------------------------------------------

func TestContactHandler_Submit_Success(t *testing.T) {
	var captured *model.ContactMessage
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, msg *model.ContactMessage) error {
			captured = msg
			return nil
		},
	}
	h := NewContactHandler(mock)

	body := `{"name":"Alice","email":"test@example.com","message":"Hello!"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d — body: %s", rec.Code, rec.Body.String())
	}
	if captured == nil {
		t.Fatal("expected Submit to be called with a ContactMessage, got nil")
	}
	if captured.Email != "test@example.com" {
		t.Errorf("expected email=test@example.com, got %q", captured.Email)
	}
	if captured.Name != "Alice" {
		t.Errorf("expected name=Alice, got %q", captured.Name)
	}
	if captured.Message != "Hello!" {
		t.Errorf("expected message=Hello!, got %q", captured.Message)
	}
}

// TestContactHandler_Submit_AnonymousHasNoUserID verifies that unauthenticated
// submissions carry no user attribution.
func TestContactHandler_Submit_AnonymousHasNoUserID(t *testing.T) {
	var captured *model.ContactMessage
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, msg *model.ContactMessage) error {
			captured = msg
			return nil
		},
	}
	h := NewContactHandler(mock)

	body := `{"name":"Anon","email":"a@x.com","message":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if captured.UserID != "" {
		t.Errorf("expected empty user_id for anonymous submission, got %q", captured.UserID)
	}
}

// TestContactHandler_Submit_AuthenticatedAttribution verifies the submitter's
// user id is attached when a session is present.
func TestContactHandler_Submit_AuthenticatedAttribution(t *testing.T) {
	var captured *model.ContactMessage
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, msg *model.ContactMessage) error {
			captured = msg
			return nil
		},
	}
	h := NewContactHandler(mock)

	body := `{"name":"Alice","email":"a@x.com","message":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	req = req.WithContext(auth.WithUserID(req.Context(), "user-42"))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if captured.UserID != "user-42" {
		t.Errorf("expected user_id=user-42, got %q", captured.UserID)
	}
}

// TestContactHandler_Submit_NameRequired verifies that omitting name returns 400.
func TestContactHandler_Submit_NameRequired(t *testing.T) {
	called := false
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, msg *model.ContactMessage) error {
			called = true
			return nil
		},
	}
	h := NewContactHandler(mock)

	body := `{"email":"test@example.com","message":"Hi there"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if called {
		t.Error("expected no record to be created on validation failure")
	}
}

// TestContactHandler_Submit_EmailRequired verifies that omitting email returns 400.
func TestContactHandler_Submit_EmailRequired(t *testing.T) {
	mock := &mockContactService{}
	h := NewContactHandler(mock)

	body := `{"name":"Bob","message":"Hi there"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// TestContactHandler_Submit_MessageRequired verifies that omitting message returns 400.
func TestContactHandler_Submit_MessageRequired(t *testing.T) {
	mock := &mockContactService{}
	h := NewContactHandler(mock)

	body := `{"name":"Bob","email":"test@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// TestContactHandler_Submit_MessageTooLong verifies that messages exceeding 5000 chars return 400.
func TestContactHandler_Submit_MessageTooLong(t *testing.T) {
	mock := &mockContactService{}
	h := NewContactHandler(mock)

	body, _ := json.Marshal(map[string]string{
		"name":    "Bob",
		"email":   "test@example.com",
		"message": strings.Repeat("a", 5001),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for message > 5000 chars, got %d", rec.Code)
	}

	var resp map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] != "message_too_long" {
		t.Errorf("expected error=message_too_long, got %q", resp["error"])
	}
}

// TestContactHandler_Submit_InvalidJSON verifies that malformed JSON returns 400.
func TestContactHandler_Submit_InvalidJSON(t *testing.T) {
	mock := &mockContactService{}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("{bad json"))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid JSON, got %d", rec.Code)
	}
}

// TestContactHandler_Submit_ServiceError verifies that a service failure returns 500.
func TestContactHandler_Submit_ServiceError(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, msg *model.ContactMessage) error {
			return errors.New("db connection lost")
		},
	}
	h := NewContactHandler(mock)

	body := `{"name":"Bob","email":"test@example.com","message":"Hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 on service error, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// GET /api/admin/contacts tests
// ---------------------------------------------------------------------------

// TestContactHandler_AdminList_Success verifies the admin listing.
func TestContactHandler_AdminList_Success(t *testing.T) {
	now := time.Now()
	messages := []*model.ContactMessage{
		{ID: "1", Name: "Alice", Email: "a@b.com", Message: "Hi", Status: model.ContactStatusPending, CreatedAt: now},
		{ID: "2", Name: "Bob", Email: "c@d.com", Message: "Hello", Status: model.ContactStatusReplied, CreatedAt: now},
	}
	mock := &mockContactService{
		listFunc: func(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
			return messages, nil
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/contacts", nil)
	rec := httptest.NewRecorder()
	h.AdminList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}

	var resp adminContactListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(resp.Messages))
	}
}

// TestContactHandler_AdminList_Filter verifies status filter is forwarded to service.
func TestContactHandler_AdminList_Filter(t *testing.T) {
	var capturedOpts model.ContactListOptions
	mock := &mockContactService{
		listFunc: func(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
			capturedOpts = opts
			return nil, nil
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/contacts?status=PENDING&limit=10&offset=20", nil)
	rec := httptest.NewRecorder()
	h.AdminList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if capturedOpts.Status != "PENDING" {
		t.Errorf("expected status=PENDING forwarded to service, got %q", capturedOpts.Status)
	}
	if capturedOpts.Limit != 10 || capturedOpts.Offset != 20 {
		t.Errorf("expected limit=10 offset=20, got %d/%d", capturedOpts.Limit, capturedOpts.Offset)
	}
}

// TestContactHandler_AdminList_EmptyList verifies empty list returns [] not null.
func TestContactHandler_AdminList_EmptyList(t *testing.T) {
	mock := &mockContactService{}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/contacts", nil)
	rec := httptest.NewRecorder()
	h.AdminList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp adminContactListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Messages == nil {
		t.Error("expected non-nil (empty) messages slice, got nil")
	}
}

// TestContactHandler_AdminList_ServiceError verifies 500 on service failure.
func TestContactHandler_AdminList_ServiceError(t *testing.T) {
	mock := &mockContactService{
		listFunc: func(ctx context.Context, opts model.ContactListOptions) ([]*model.ContactMessage, error) {
			return nil, errors.New("database error")
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/contacts", nil)
	rec := httptest.NewRecorder()
	h.AdminList(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 on service error, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// PATCH /api/admin/contacts/{id}/status tests
// ---------------------------------------------------------------------------

func patchStatusRequest(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/contacts/"+id+"/status", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", id)
	return req
}

// TestContactHandler_UpdateStatus_Success verifies a successful transition.
func TestContactHandler_UpdateStatus_Success(t *testing.T) {
	now := time.Now()
	var capturedID, capturedStatus string
	mock := &mockContactService{
		updateStatusFunc: func(ctx context.Context, id, status string) (*model.ContactMessage, error) {
			capturedID = id
			capturedStatus = status
			return &model.ContactMessage{ID: id, Status: status, CreatedAt: now, UpdatedAt: now}, nil
		},
	}
	h := NewContactHandler(mock)

	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, patchStatusRequest("c-1", `{"status":"REPLIED"}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}
	if capturedID != "c-1" || capturedStatus != "REPLIED" {
		t.Errorf("expected id=c-1 status=REPLIED, got id=%q status=%q", capturedID, capturedStatus)
	}

	var resp model.ContactMessage
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != model.ContactStatusReplied {
		t.Errorf("expected status=REPLIED in response, got %q", resp.Status)
	}
}

// TestContactHandler_UpdateStatus_InvalidStatus verifies 400 for unknown statuses.
func TestContactHandler_UpdateStatus_InvalidStatus(t *testing.T) {
	mock := &mockContactService{
		updateStatusFunc: func(ctx context.Context, id, status string) (*model.ContactMessage, error) {
			return nil, service.ErrInvalidStatus
		},
	}
	h := NewContactHandler(mock)

	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, patchStatusRequest("c-1", `{"status":"ARCHIVED"}`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid status, got %d", rec.Code)
	}

	var resp map[string]string
	_ = json.NewDecoder(rec.Body).Decode(&resp)
	if resp["error"] != "invalid_status" {
		t.Errorf("expected error=invalid_status, got %q", resp["error"])
	}
}

// TestContactHandler_UpdateStatus_InvalidTransition verifies 409 for backward moves.
func TestContactHandler_UpdateStatus_InvalidTransition(t *testing.T) {
	mock := &mockContactService{
		updateStatusFunc: func(ctx context.Context, id, status string) (*model.ContactMessage, error) {
			return nil, service.ErrInvalidTransition
		},
	}
	h := NewContactHandler(mock)

	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, patchStatusRequest("c-1", `{"status":"PENDING"}`))

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for invalid transition, got %d", rec.Code)
	}
}

// TestContactHandler_UpdateStatus_NotFound verifies 404 for missing records.
func TestContactHandler_UpdateStatus_NotFound(t *testing.T) {
	mock := &mockContactService{
		updateStatusFunc: func(ctx context.Context, id, status string) (*model.ContactMessage, error) {
			return nil, repository.ErrNotFound
		},
	}
	h := NewContactHandler(mock)

	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, patchStatusRequest("missing", `{"status":"READ"}`))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

// TestContactHandler_UpdateStatus_InvalidJSON verifies 400 for malformed bodies.
func TestContactHandler_UpdateStatus_InvalidJSON(t *testing.T) {
	mock := &mockContactService{}
	h := NewContactHandler(mock)

	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, patchStatusRequest("c-1", "{bad json"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid JSON, got %d", rec.Code)
	}
}
