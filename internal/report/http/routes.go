package reporthttp

import "github.com/go-chi/chi/v5"

// MountRoutes registers report routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/period", h.period)
		r.Get("/compare", h.compare)
		r.Get("/compare/chart", h.compareChart)
		r.Get("/projects/{projectID}/materials", h.project)
		r.Get("/projects/{projectID}/materials/chart", h.projectChart)
		r.Get("/purchases", h.purchases)
		r.Route("/snapshots", func(r chi.Router) {
			r.Post("/", h.triggerSnapshot)
			r.Get("/", h.listSnapshots)
			r.Get("/{snapshotID}", h.getSnapshot)
			r.Get("/{snapshotID}/result", h.snapshotResult)
		})
	})
}
