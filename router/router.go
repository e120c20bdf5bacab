// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/MaplrCanada/ss-petitions/cliparse"
	"github.com/MaplrCanada/ss-petitions/handlers"
	"github.com/MaplrCanada/ss-petitions/hub"
	"github.com/MaplrCanada/ss-petitions/middleware"
	"github.com/MaplrCanada/ss-petitions/petition"
)

func NewRouter(store handlers.Store, rules petition.Rules, events *hub.Hub, cfg cliparse.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)

	// Initialize handlers
	var notifier handlers.Notifier
	if events != nil {
		notifier = events
	}
	petitionHandler := handlers.NewPetitionHandler(store, rules, notifier)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Root endpoint
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ss-petitions API v1"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Logging)
		r.Use(middleware.Identify(cfg.AdminKeySalt))

		// Reads
		r.Get("/config", petitionHandler.Config)
		r.Get("/snapshot", petitionHandler.Snapshot)
		r.Get("/petitions", petitionHandler.List)
		r.Get("/petitions/{id}", petitionHandler.Details)

		// Citizen actions
		r.Post("/petitions", petitionHandler.Submit)
		r.Post("/petitions/{id}/sign", petitionHandler.Sign)
		r.Delete("/petitions/{id}", petitionHandler.Delete)

		// Admin review
		r.Post("/petitions/{id}/status", petitionHandler.SetStatus)
		r.Post("/petitions/{id}/approve", petitionHandler.Approve)
		r.Post("/petitions/{id}/reject", petitionHandler.Reject)
		r.Post("/petitions/{id}/complete", petitionHandler.Complete)

		// Push channel
		if events != nil {
			r.Get("/ws", events.ServeWS)
		}
	})

	return r
}
