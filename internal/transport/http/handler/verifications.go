package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/verification-api/internal/application/verification"
	"github.com/verification-api/internal/domain"
)

// VerificationHandler handles verification record endpoints.
type VerificationHandler struct {
	svc verification.Service
}

func NewVerificationHandler(svc verification.Service) *VerificationHandler {
	return &VerificationHandler{svc: svc}
}

// Write accepts both write shapes on one endpoint: a full verification
// (201) and a joinedGame-only update (200). The service decides which.
func (h *VerificationHandler) Write(w http.ResponseWriter, r *http.Request) {
	var req domain.VerificationWriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	rec, created, err := h.svc.Write(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	if created {
		writeJSON(w, http.StatusCreated, RecordEnvelope{
			Message: "verification data created/updated successfully",
			Record:  rec,
		})
		return
	}
	writeJSON(w, http.StatusOK, RecordEnvelope{
		Message: "joinedGame updated successfully",
		Record:  rec,
	})
}

func (h *VerificationHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Fetch(r.Context(), chi.URLParam(r, "robloxUsername"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RecordEnvelope{Record: rec})
}

func (h *VerificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "robloxUsername")
	if err := h.svc.Delete(r.Context(), username); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification data for " + username + " deleted successfully"})
}
