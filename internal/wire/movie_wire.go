package wire

import (
	"movie-ticketing/internal/adaptor"
	"movie-ticketing/pkg/cache"

	"github.com/go-chi/chi/v5"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler, rt routes) {
	// ==================== PUBLIC ROUTES ====================
	r.With(rt.cached(cache.GroupMovies)).Get("/api/movies", movieHandler.GetMovies)
	r.With(rt.cached(cache.GroupMovies)).Get("/api/movies/{id}", movieHandler.GetMovieByID)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/movies", func(r chi.Router) {
		r.Use(rt.auth())  // Must be authenticated
		r.Use(rt.admin()) // Must be admin

		r.Post("/", movieHandler.CreateMovie)       // POST /api/admin/movies
		r.Put("/{id}", movieHandler.UpdateMovie)    // PUT /api/admin/movies/{id}
		r.Delete("/{id}", movieHandler.DeleteMovie) // DELETE /api/admin/movies/{id}
	})
}

func wirePrice(r chi.Router, priceHandler *adaptor.PriceHandler, rt routes) {
	r.With(rt.cached(cache.GroupPrices)).Get("/api/prices", priceHandler.GetPrices)

	r.With(rt.auth(), rt.admin()).Put("/api/admin/prices/{id}", priceHandler.UpdatePrice)
}
