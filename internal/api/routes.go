package api

import "github.com/go-chi/chi/v5"

func (h *Handlers) setupRoutes(r chi.Router) {
	r.Get("/healthcheck", registerHandler(h.HealthCheck))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/stats", registerHandler(h.GetStats))
		r.Get("/balances/{identity}", registerHandler(h.GetBalance))

		r.Route("/records", func(r chi.Router) {
			r.With(identityMiddleware).Post("/", registerHandler(h.CreateRecord))

			r.Route("/{owner}", func(r chi.Router) {
				r.Get("/", registerHandler(h.GetRecord))
				r.Get("/events", registerHandler(h.ListEvents))

				r.Group(func(r chi.Router) {
					r.Use(identityMiddleware)
					r.Post("/stake", registerHandler(h.Stake))
					r.Post("/unstake", registerHandler(h.Unstake))
					r.Post("/claim", registerHandler(h.ClaimReward))
					r.Post("/compound", registerHandler(h.Compound))
				})
			})
		})
	})
}
