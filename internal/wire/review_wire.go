package wire

import (
	"movie-ticketing/internal/adaptor"
	"movie-ticketing/internal/data/entity"
	"movie-ticketing/pkg/cache"
	"movie-ticketing/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, rt routes) {
	// ==================== PUBLIC ROUTES ====================
	// Approved reviews only
	r.With(rt.cached(cache.GroupReviews)).Get("/api/movies/{id}/reviews", reviewHandler.GetMovieReviews)

	// ==================== PROTECTED ROUTES ====================
	r.Route("/api/reviews", func(r chi.Router) {
		r.Use(rt.auth())

		r.With(middleware.RequireRole(rt.log, entity.RoleCustomer)).Post("/", reviewHandler.CreateReview)
		r.Put("/{id}", reviewHandler.UpdateReview)
		r.Delete("/{id}", reviewHandler.DeleteReview)
	})

	r.With(rt.auth()).Get("/api/user/reviews", reviewHandler.GetUserReviews)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/reviews", func(r chi.Router) {
		r.Use(rt.auth())
		r.Use(rt.admin())

		r.Get("/", reviewHandler.GetReviews)                    // GET /api/admin/reviews?status=needs_review
		r.Put("/{id}/status", reviewHandler.UpdateReviewStatus) // PUT /api/admin/reviews/{id}/status
	})
}

func wireSeed(r chi.Router, seedHandler *adaptor.SeedHandler, rt routes) {
	r.With(rt.auth(), rt.admin()).Post("/api/admin/seed", seedHandler.Seed)
}
