package adaptor

import (
	"net/http"

	"movie-ticketing/internal/dto/request"
	"movie-ticketing/internal/usecase"
	"movie-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ScheduleHandler struct {
	baseHandler
	service usecase.ScheduleService
}

func NewScheduleHandler(service usecase.ScheduleService, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		baseHandler: newBaseHandler(log, "schedule"),
		service:     service,
	}
}

// GetSchedules handles GET /api/schedules
func (h *ScheduleHandler) GetSchedules(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ScheduleFilterRequest{
		MovieID:    query.Get("movie_id"),
		Theatre:    query.Get("theatre"),
		StartDate:  query.Get("start_date"),
		EndDate:    query.Get("end_date"),
		Search:     query.Get("search"),
		MPAARating: query.Get("mpaa_rating"),
	}

	schedules, err := h.service.GetSchedules(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, err, "get schedules")
		return
	}

	utils.ResponseSuccess(w, "Schedules retrieved successfully", schedules)
}

// GetScheduleByID handles GET /api/schedules/{id}
func (h *ScheduleHandler) GetScheduleByID(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.service.GetScheduleByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "get schedule")
		return
	}

	utils.ResponseSuccess(w, "Schedule retrieved successfully", schedule)
}

// CreateSchedule handles POST /api/admin/schedules
func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req request.ScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	schedule, err := h.service.CreateSchedule(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "create schedule")
		return
	}

	utils.ResponseCreated(w, "Schedule created successfully", schedule)
}

// UpdateSchedule handles PUT /api/admin/schedules/{id}
func (h *ScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req request.ScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	schedule, err := h.service.UpdateSchedule(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "update schedule")
		return
	}

	utils.ResponseSuccess(w, "Schedule updated successfully", schedule)
}

// DeleteSchedule handles DELETE /api/admin/schedules/{id}
func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSchedule(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "delete schedule")
		return
	}

	utils.ResponseSuccess(w, "Schedule deleted successfully", nil)
}
