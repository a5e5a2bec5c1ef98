package calculator

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts all calculator endpoints onto the given router
// under the /calculator prefix.
func RegisterRoutes(r chi.Router, sessions *Sessions) {
	r.Route("/calculator", func(r chi.Router) {
		r.Post("/evaluate", Evaluate)
		r.Post("/sequence", Sequence)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessions.Create)
			r.Get("/{id}", sessions.Get)
			r.Post("/{id}/keys", sessions.Press)
			r.Delete("/{id}", sessions.Delete)
		})
	})
}
