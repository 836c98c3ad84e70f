package wire

import (
	"movie-ticketing/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, rt routes) {
	// ==================== PROTECTED ROUTES ====================
	r.Route("/api/user/profile", func(r chi.Router) {
		r.Use(rt.auth())

		r.Get("/", userHandler.GetProfile)    // GET /api/user/profile
		r.Put("/", userHandler.UpdateProfile) // PUT /api/user/profile
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/users", func(r chi.Router) {
		r.Use(rt.auth())
		r.Use(rt.admin())

		r.Get("/", userHandler.GetAllUsers)        // GET /api/admin/users?role=customer
		r.Delete("/{id}", userHandler.DeleteUser) // DELETE /api/admin/users/{id}
	})
}
