package wire

import (
	"movie-ticketing/internal/adaptor"
	"movie-ticketing/pkg/cache"

	"github.com/go-chi/chi/v5"
)

func wireSchedule(r chi.Router, scheduleHandler *adaptor.ScheduleHandler, rt routes) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/schedules", func(r chi.Router) {
		r.Use(rt.cached(cache.GroupSchedules))

		r.Get("/", scheduleHandler.GetSchedules)        // GET /api/schedules?theatre=theatre_1
		r.Get("/{id}", scheduleHandler.GetScheduleByID) // GET /api/schedules/{id}
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/schedules", func(r chi.Router) {
		r.Use(rt.auth())
		r.Use(rt.admin())

		r.Post("/", scheduleHandler.CreateSchedule)
		r.Put("/{id}", scheduleHandler.UpdateSchedule)
		r.Delete("/{id}", scheduleHandler.DeleteSchedule)
	})
}
