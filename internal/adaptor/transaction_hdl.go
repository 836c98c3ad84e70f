package adaptor

import (
	"net/http"

	"movie-ticketing/internal/dto/request"
	"movie-ticketing/internal/usecase"
	"movie-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	baseHandler
	service usecase.TransactionService
}

func NewTransactionHandler(service usecase.TransactionService, log *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		baseHandler: newBaseHandler(log, "transaction"),
		service:     service,
	}
}

// GetTransactions handles GET /api/transactions
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(w, r)
	if !ok {
		return
	}

	txns, err := h.service.GetTransactions(r.Context(), caller, request.NewPaginatedRequest(r.URL.Query()))
	if err != nil {
		h.handleServiceError(w, err, "get transactions")
		return
	}

	utils.ResponseSuccess(w, "Transactions retrieved successfully", txns)
}

// GetTransactionByID handles GET /api/transactions/{id}
func (h *TransactionHandler) GetTransactionByID(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(w, r)
	if !ok {
		return
	}

	txn, err := h.service.GetTransactionByID(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "get transaction")
		return
	}

	utils.ResponseSuccess(w, "Transaction retrieved successfully", txn)
}

// CreateTransaction handles POST /api/transactions
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(w, r)
	if !ok {
		return
	}

	var req request.CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	txn, err := h.service.CreateTransaction(r.Context(), caller, &req)
	if err != nil {
		h.handleServiceError(w, err, "create transaction")
		return
	}

	utils.ResponseCreated(w, "Transaction created successfully", txn)
}

// UpdateTransaction handles PUT /api/transactions/{id}
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(w, r)
	if !ok {
		return
	}

	var req request.UpdateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	txn, err := h.service.UpdateTransaction(r.Context(), caller, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "update transaction")
		return
	}

	utils.ResponseSuccess(w, "Transaction updated successfully", txn)
}

// AddToCart handles POST /api/transactions/cart
func (h *TransactionHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(w, r)
	if !ok {
		return
	}

	var req request.AddToCartRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	txn, err := h.service.AddToCart(r.Context(), caller, &req)
	if err != nil {
		h.handleServiceError(w, err, "add to cart")
		return
	}

	utils.ResponseSuccess(w, "Ticket added to cart", txn)
}

// Checkout handles POST /api/transactions/{id}/checkout
func (h *TransactionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(w, r)
	if !ok {
		return
	}

	txn, err := h.service.Checkout(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "checkout")
		return
	}

	utils.ResponseSuccess(w, "Purchase confirmed", txn)
}

// Cancel handles POST /api/transactions/{id}/cancel
func (h *TransactionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	caller, ok := actor(w, r)
	if !ok {
		return
	}

	txn, err := h.service.Cancel(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, err, "cancel transaction")
		return
	}

	utils.ResponseSuccess(w, "Transaction cancelled", txn)
}
