// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MaplrCanada/ss-petitions/middleware"
	"github.com/MaplrCanada/ss-petitions/models"
	"github.com/MaplrCanada/ss-petitions/petition"
)

// Sign handles POST /petitions/{id}/sign
func (h *PetitionHandler) Sign(w http.ResponseWriter, r *http.Request) {
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

	signed, err := petition.ApplySignature(p, viewer, h.rules, time.Now().UTC())
	if err != nil {
		writeError(w, r, err)
		return
	}

	// The unique index decides concurrent duplicate signatures
	sig := signed.Signatures[len(signed.Signatures)-1]
	if err := h.store.AddSignature(r.Context(), id, sig); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("petition signed", "petition_id", id, "signer", viewer.ID, "signatures", signed.SignatureCount())
	h.notify(models.Event{Type: models.EventPetitionSigned, PetitionID: id, Status: signed.Status})

	view := h.toView(signed, viewer)
	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{
		Success:  true,
		Message:  "Petition signed",
		Petition: &view,
	})
}
