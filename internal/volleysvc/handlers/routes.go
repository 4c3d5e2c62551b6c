package handlers

import (
	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {

		r.Get("/health", h.HealthHandler)

		// Secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)
			r.Use(h.WithPrincipal)

			r.Post("/session", h.Session)

			r.Get("/games", h.ListGames)
			r.Get("/games/{gameID}", h.GetGame)
			r.Get("/me/games", h.MyGames)

			r.Post("/games/{gameID}/players", h.RegisterSelf)
			r.Delete("/games/{gameID}/players/{userID}", h.UnregisterPlayer)

			// Admin-only routes, gated on the stored role
			r.Group(func(r chi.Router) {
				r.Use(h.RequireAdmin)

				r.Post("/games", h.CreateGame)
				r.Put("/games/{gameID}", h.UpdateGame)
				r.Delete("/games/{gameID}", h.DeleteGame)
				r.Put("/games/{gameID}/players/{userID}/payment", h.SetPaymentStatus)

				r.Get("/users", h.ListUsers)
				r.Get("/users/pending", h.ListPendingUsers)
				r.Put("/users/{userID}/role", h.ChangeRole)
			})
		})
	})
}
