package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// An unsupported method on a known path answers 404, not 405, so the
	// route surface is not enumerable. Registered before the subrouter so
	// it propagates into it.
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	router.Route("/api/v1", func(r chi.Router) {
		// routes without authentication
		r.Group(func(r chi.Router) {
			r.Get("/registration/new", h.newRegistration)
			r.With(h.withThrottle).Post("/registration", h.register)
			r.Get("/confirm", h.confirm)
			r.With(h.withThrottle).Post("/session", h.login)
			r.Delete("/session", h.logout)
			r.Get("/health", h.health)
		})

		// routes behind an authenticated session
		r.Group(func(r chi.Router) {
			r.Use(h.auth)
			r.Get("/account", h.showAccount)
			r.Get("/account/edit", h.editAccount)
			r.Put("/account", h.updateAccount)
			r.Delete("/account", h.deleteAccount)
		})
	})

	return router
}
