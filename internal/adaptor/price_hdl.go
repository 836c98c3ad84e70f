package adaptor

import (
	"net/http"

	"movie-ticketing/internal/dto/request"
	"movie-ticketing/internal/usecase"
	"movie-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PriceHandler struct {
	baseHandler
	service usecase.PriceService
}

func NewPriceHandler(service usecase.PriceService, log *zap.Logger) *PriceHandler {
	return &PriceHandler{
		baseHandler: newBaseHandler(log, "price"),
		service:     service,
	}
}

// GetPrices handles GET /api/prices
func (h *PriceHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	prices, err := h.service.GetPrices(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "get prices")
		return
	}

	utils.ResponseSuccess(w, "Prices retrieved successfully", prices)
}

// UpdatePrice handles PUT /api/admin/prices/{id}
func (h *PriceHandler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req request.UpdatePriceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	price, err := h.service.UpdatePrice(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "update price")
		return
	}

	utils.ResponseSuccess(w, "Price updated successfully", price)
}
