package adaptor

import (
	"net/http"

	"movie-ticketing/internal/data/entity"
	"movie-ticketing/internal/dto/request"
	"movie-ticketing/internal/usecase"
	"movie-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	baseHandler
	service usecase.ReviewService
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		baseHandler: newBaseHandler(log, "review"),
		service:     service,
	}
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(w, r)
	if !ok {
		return
	}

	var req request.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.CreateReview(r.Context(), caller, &req)
	if err != nil {
		h.handleServiceError(w, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review submitted for approval", review)
}

// GetMovieReviews handles GET /api/movies/{id}/reviews
func (h *ReviewHandler) GetMovieReviews(w http.ResponseWriter, r *http.Request) {
	req := request.NewPaginatedRequest(r.URL.Query())

	reviews, err := h.service.GetMovieReviews(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.handleServiceError(w, err, "get movie reviews")
		return
	}

	utils.ResponseSuccess(w, "Reviews retrieved successfully", reviews)
}

// GetUserReviews handles GET /api/user/reviews
func (h *ReviewHandler) GetUserReviews(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(w, r)
	if !ok {
		return
	}

	reviews, err := h.service.GetUserReviews(r.Context(), caller.UserID, request.NewPaginatedRequest(r.URL.Query()))
	if err != nil {
		h.handleServiceError(w, err, "get user reviews")
		return
	}

	utils.ResponseSuccess(w, "Reviews retrieved successfully", reviews)
}

// GetReviews handles GET /api/admin/reviews?status=needs_review
func (h *ReviewHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var status *entity.ReviewStatus
	if value := query.Get("status"); value != "" {
		v := entity.ReviewStatus(value)
		status = &v
	}

	reviews, err := h.service.GetReviews(r.Context(), status, request.NewPaginatedRequest(query))
	if err != nil {
		h.handleServiceError(w, err, "get reviews")
		return
	}

	utils.ResponseSuccess(w, "Reviews retrieved successfully", reviews)
}

// UpdateReview handles PUT /api/reviews/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(w, r)
	if !ok {
		return
	}

	var req request.UpdateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.UpdateReview(r.Context(), caller, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated and sent for approval", review)
}

// UpdateReviewStatus handles PUT /api/admin/reviews/{id}/status
func (h *ReviewHandler) UpdateReviewStatus(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateReviewStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.UpdateReviewStatus(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "update review status")
		return
	}

	utils.ResponseSuccess(w, "Review status updated", review)
}

// DeleteReview handles DELETE /api/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteReview(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "Review deleted successfully", nil)
}
