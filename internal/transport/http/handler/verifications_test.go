package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/verification-api/internal/domain"
)

// --- mock ---

type mockVerificationSvc struct{ mock.Mock }

func (m *mockVerificationSvc) Write(ctx context.Context, req domain.VerificationWriteRequest) (*domain.VerificationRecord, bool, error) {
	args := m.Called(ctx, req)
	if rec, _ := args.Get(0).(*domain.VerificationRecord); rec != nil {
		return rec, args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func (m *mockVerificationSvc) Fetch(ctx context.Context, robloxUsername string) (*domain.VerificationRecord, error) {
	args := m.Called(ctx, robloxUsername)
	if rec, _ := args.Get(0).(*domain.VerificationRecord); rec != nil {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockVerificationSvc) Delete(ctx context.Context, robloxUsername string) error {
	return m.Called(ctx, robloxUsername).Error(0)
}

// --- helpers ---

func newTestRouter(svc *mockVerificationSvc) http.Handler {
	h := NewVerificationHandler(svc)
	r := chi.NewRouter()
	r.Post("/api/verification", h.Write)
	r.Get("/api/verification/{robloxUsername}", h.Fetch)
	r.Delete("/api/verification/{robloxUsername}", h.Delete)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// --- Write ---

func TestWrite_FullVerificationIs201(t *testing.T) {
	svc := &mockVerificationSvc{}
	rec := &domain.VerificationRecord{RobloxUsername: "Alice", RobloxID: "1"}
	svc.On("Write", mock.Anything, mock.Anything).Return(rec, true, nil)

	rr := doJSON(t, newTestRouter(svc), http.MethodPost, "/api/verification", map[string]interface{}{
		"robloxUsername":  "Alice",
		"robloxID":        "1",
		"discordUsername": "A#1",
		"discordID":       "2",
		"timeToVerify":    "9999999999",
	})

	assert.Equal(t, http.StatusCreated, rr.Code)
	var env RecordEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "Alice", env.Record.RobloxUsername)
	assert.Contains(t, env.Message, "created/updated")
}

func TestWrite_PartialUpdateIs200(t *testing.T) {
	svc := &mockVerificationSvc{}
	rec := &domain.VerificationRecord{RobloxUsername: "Alice", JoinedGame: true}
	svc.On("Write", mock.Anything, mock.Anything).Return(rec, false, nil)

	rr := doJSON(t, newTestRouter(svc), http.MethodPost, "/api/verification", map[string]interface{}{
		"robloxUsername": "Alice",
		"joinedGame":     true,
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	var env RecordEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.True(t, env.Record.JoinedGame)
	assert.Contains(t, env.Message, "joinedGame updated")
}

func TestWrite_InvalidJSONIs400(t *testing.T) {
	svc := &mockVerificationSvc{}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/verification", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "Write")
}

func TestWrite_BadRequestFromServiceIs400(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("Write", mock.Anything, mock.Anything).Return(nil, false, domain.ErrBadRequest)

	rr := doJSON(t, newTestRouter(svc), http.MethodPost, "/api/verification", map[string]interface{}{
		"robloxUsername": "Alice",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestWrite_NotFoundFromServiceIs404(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("Write", mock.Anything, mock.Anything).Return(nil, false, domain.ErrNotFound)

	rr := doJSON(t, newTestRouter(svc), http.MethodPost, "/api/verification", map[string]interface{}{
		"robloxUsername": "Ghost",
		"joinedGame":     true,
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- Fetch ---

func TestFetch_Is200WithRecord(t *testing.T) {
	svc := &mockVerificationSvc{}
	rec := &domain.VerificationRecord{RobloxUsername: "Alice", RobloxID: "1", JoinedGame: true}
	svc.On("Fetch", mock.Anything, "Alice").Return(rec, nil)

	rr := doJSON(t, newTestRouter(svc), http.MethodGet, "/api/verification/Alice", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	var env RecordEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "1", env.Record.RobloxID)
	assert.True(t, env.Record.JoinedGame)
}

func TestFetch_MissingIs404(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("Fetch", mock.Anything, "Ghost").Return(nil, domain.ErrNotFound)

	rr := doJSON(t, newTestRouter(svc), http.MethodGet, "/api/verification/Ghost", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "unable to fetch user details", env.Error)
}

// --- Delete ---

func TestDelete_Is200(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("Delete", mock.Anything, "Alice").Return(nil)

	rr := doJSON(t, newTestRouter(svc), http.MethodDelete, "/api/verification/Alice", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Contains(t, env.Message, "Alice")
}

func TestDelete_MissingIs404(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("Delete", mock.Anything, "Ghost").Return(domain.ErrNotFound)

	rr := doJSON(t, newTestRouter(svc), http.MethodDelete, "/api/verification/Ghost", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// --- error mapping ---

func TestStorageFailureIs500(t *testing.T) {
	svc := &mockVerificationSvc{}
	svc.On("Fetch", mock.Anything, "Alice").Return(nil, assert.AnError)

	rr := doJSON(t, newTestRouter(svc), http.MethodGet, "/api/verification/Alice", nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	var env MessageEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.Equal(t, "internal server error", env.Error, "storage details never leak to the caller")
}
