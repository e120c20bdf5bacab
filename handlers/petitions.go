// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"github.com/MaplrCanada/ss-petitions/auth"
	"github.com/MaplrCanada/ss-petitions/middleware"
	"github.com/MaplrCanada/ss-petitions/models"
	"github.com/MaplrCanada/ss-petitions/petition"
)

// Store is the persistence the handlers need. *db.Store implements it.
type Store interface {
	ListPetitions(ctx context.Context) ([]petition.Petition, error)
	GetPetition(ctx context.Context, id string) (petition.Petition, error)
	InsertPetition(ctx context.Context, p petition.Petition) error
	AddSignature(ctx context.Context, petitionID string, sig petition.Signature) error
	UpdateStatus(ctx context.Context, id string, from, to petition.Status, comment string, at time.Time) error
	DeletePetition(ctx context.Context, id string) error
}

// Notifier is told about every successful change. *hub.Hub implements it.
type Notifier interface {
	Broadcast(e models.Event) int
}

type PetitionHandler struct {
	store    Store
	rules    petition.Rules
	notifier Notifier
}

// NewPetitionHandler wires the handlers. notifier may be nil.
func NewPetitionHandler(store Store, rules petition.Rules, notifier Notifier) *PetitionHandler {
	return &PetitionHandler{store: store, rules: rules, notifier: notifier}
}

func (h *PetitionHandler) notify(e models.Event) {
	if h.notifier != nil {
		h.notifier.Broadcast(e)
	}
}

func (h *PetitionHandler) toView(p petition.Petition, viewer petition.Viewer) models.PetitionView {
	return models.PetitionView{
		Petition:      petition.Redact(p, viewer),
		DisplayAuthor: petition.DisplayAuthor(p),
		NumSignatures: p.SignatureCount(),
		Required:      h.rules.RequiredSignatures,
		CreatedAgo:    humanize.Time(p.CreatedAt),
		HasSigned:     petition.HasSigned(p, viewer.ID),
		CanSign:       petition.CanSign(p, viewer, h.rules),
		CanDelete:     petition.CanDelete(p, viewer),
		CanReview:     petition.CanReview(p, viewer, h.rules),
	}
}

// Config handles GET /config
func (h *PetitionHandler) Config(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.rules)
}

// Snapshot handles GET /snapshot
func (h *PetitionHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())

	all, err := h.store.ListPetitions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	petitions := make([]petition.Petition, 0, len(all))
	for _, p := range all {
		petitions = append(petitions, petition.Redact(p, viewer))
	}

	middleware.JSONResponse(w, http.StatusOK, models.Snapshot{
		Petitions: petitions,
		Viewer:    viewer,
		Config:    h.rules,
	})
}

// List handles GET /petitions?view=&category=&status=&search=&sort=
func (h *PetitionHandler) List(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())
	q := r.URL.Query()

	view, err := petition.ParseView(q.Get("view"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	sortBy, err := petition.ParseSort(q.Get("sort"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	status, err := petition.ParseStatus(q.Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	all, err := h.store.ListPetitions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	list := petition.ListFor(view, viewer, all, petition.Params{
		Category: q.Get("category"),
		Status:   status,
		Search:   q.Get("search"),
		Sort:     sortBy,
	}, h.rules)

	views := make([]models.PetitionView, 0, len(list))
	for _, p := range list {
		views = append(views, h.toView(p, viewer))
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListResponse{
		View:      view,
		Sort:      sortBy,
		Count:     len(views),
		Petitions: views,
	})
}

// Details handles GET /petitions/{id}
func (h *PetitionHandler) Details(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())

	p, err := h.store.GetPetition(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, h.toView(p, viewer))
}

// Submit handles POST /petitions
func (h *PetitionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.ViewerFromContext(r.Context())
	if !viewer.Identified() {
		writeError(w, r, petition.ErrUnidentifiedViewer)
		return
	}

	var req models.SubmitPetitionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		writeError(w, r, &petition.ValidationError{Message: "Invalid JSON"})
		return
	}

	sub, err := petition.ValidateSubmission(req, h.rules)
	if err != nil {
		writeError(w, r, err)
		return
	}

	all, err := h.store.ListPetitions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := petition.CheckDuplicate(all, viewer.ID, sub.Title); err != nil {
		writeError(w, r, err)
		return
	}

	now := time.Now().UTC()
	p := petition.Petition{
		ID:          auth.NewPetitionID(),
		Title:       sub.Title,
		Content:     sub.Content,
		Category:    sub.Category,
		AuthorID:    viewer.ID,
		AuthorName:  viewer.Name,
		IsAnonymous: sub.IsAnonymous,
		Status:      petition.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.InsertPetition(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("petition created", "petition_id", p.ID, "author", viewer.ID, "category", p.Category)
	h.notify(models.Event{Type: models.EventPetitionCreated, PetitionID: p.ID, Status: p.Status})

	view := h.toView(p, viewer)
	middleware.JSONResponse(w, http.StatusCreated, models.ActionResponse{
		Success:  true,
		Message:  "Petition submitted",
		Petition: &view,
	})
}

// Delete handles DELETE /petitions/{id}
func (h *PetitionHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if !petition.CanDelete(p, viewer) {
		writeError(w, r, petition.ErrUnauthorized)
		return
	}

	if err := h.store.DeletePetition(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("petition deleted", "petition_id", id, "by", viewer.ID, "admin", viewer.IsAdmin)
	h.notify(models.Event{Type: models.EventPetitionDeleted, PetitionID: id})

	middleware.JSONResponse(w, http.StatusOK, models.ActionResponse{
		Success: true,
		Message: "Petition deleted",
	})
}
