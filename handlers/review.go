// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MaplrCanada/ss-petitions/middleware"
	"github.com/MaplrCanada/ss-petitions/models"
	"github.com/MaplrCanada/ss-petitions/petition"
)

var statusMessages = map[petition.Status]string{
	petition.StatusApproved:  "Petition approved",
	petition.StatusRejected:  "Petition rejected",
	petition.StatusCompleted: "Petition completed",
}

// SetStatus handles POST /petitions/{id}/status
func (h *PetitionHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req models.SetStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		writeError(w, r, &petition.ValidationError{Message: "Invalid JSON"})
		return
	}
	if !req.Status.Valid() {
		writeError(w, r, &petition.ValidationError{Field: "status", Message: "Unknown status"})
		return
	}

	h.changeStatus(w, r, req.Status, req.Comment)
}

// Approve handles POST /petitions/{id}/approve
func (h *PetitionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, petition.StatusApproved)
}

// Reject handles POST /petitions/{id}/reject
func (h *PetitionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, petition.StatusRejected)
}

// Complete handles POST /petitions/{id}/complete
func (h *PetitionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, petition.StatusCompleted)
}

// review applies a fixed status; the body, with its comment, is optional.
func (h *PetitionHandler) review(w http.ResponseWriter, r *http.Request, status petition.Status) {
	var req models.ReviewRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, &petition.ValidationError{Message: "Invalid JSON"})
		return
	}

	h.changeStatus(w, r, status, req.Comment)
}

func (h *PetitionHandler) changeStatus(w http.ResponseWriter, r *http.Request, status petition.Status, comment string) {
	viewer := middleware.ViewerFromContext(r.Context())
	if !viewer.Identified() {
		writeError(w, r, petition.ErrUnidentifiedViewer)
		return
	}

	id := chi.URLParam(r, "id")
	p, err := h.store.GetPetition(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	changed, err := petition.ApplyStatusChange(p, status, comment, viewer, time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Compare-and-set: loses if another admin moved the petition first
	err = h.store.UpdateStatus(r.Context(), id, p.Status, changed.Status, changed.AdminComment, changed.UpdatedAt)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("petition status changed", "petition_id", id, "from", p.Status, "to", changed.Status, "admin", viewer.ID)
	h.notify(models.Event{Type: models.EventPetitionStatusChanged, PetitionID: id, Status: changed.Status})

	view := h.toView(changed, viewer)
	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{
		Success:  true,
		Message:  statusMessages[changed.Status],
		Petition: &view,
	})
}
