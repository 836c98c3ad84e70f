package adaptor

import (
	"net/http"

	"movie-ticketing/internal/dto/request"
	"movie-ticketing/internal/usecase"
	"movie-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TransactionDetailHandler struct {
	baseHandler
	service usecase.TransactionDetailService
}

func NewTransactionDetailHandler(service usecase.TransactionDetailService, log *zap.Logger) *TransactionDetailHandler {
	return &TransactionDetailHandler{
		baseHandler: newBaseHandler(log, "transaction_detail"),
		service:     service,
	}
}

// GetDetails handles GET /api/transactions/{id}/details
func (h *TransactionDetailHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(w, r)
	if !ok {
		return
	}

	details, err := h.service.GetDetails(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "get transaction details")
		return
	}

	utils.ResponseSuccess(w, "Transaction details retrieved successfully", details)
}

// AddDetail handles POST /api/transactions/{id}/details
func (h *TransactionDetailHandler) AddDetail(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(w, r)
	if !ok {
		return
	}

	var req request.TransactionDetailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	detail, err := h.service.AddDetail(r.Context(), caller, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "add transaction detail")
		return
	}

	utils.ResponseCreated(w, "Ticket added", detail)
}

// UpdateDetail handles PUT /api/transaction-details/{id}
func (h *TransactionDetailHandler) UpdateDetail(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(w, r)
	if !ok {
		return
	}

	var req request.TransactionDetailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	detail, err := h.service.UpdateDetail(r.Context(), caller, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "update transaction detail")
		return
	}

	utils.ResponseSuccess(w, "Ticket updated", detail)
}

// DeleteDetail handles DELETE /api/transaction-details/{id}
func (h *TransactionDetailHandler) DeleteDetail(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteDetail(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "delete transaction detail")
		return
	}

	utils.ResponseSuccess(w, "Ticket removed", nil)
}
