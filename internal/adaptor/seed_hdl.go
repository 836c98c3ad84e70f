package adaptor

import (
	"net/http"

	"movie-ticketing/internal/usecase"
	"movie-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type SeedHandler struct {
	baseHandler
	service usecase.SeedService
}

func NewSeedHandler(service usecase.SeedService, log *zap.Logger) *SeedHandler {
	return &SeedHandler{
		baseHandler: newBaseHandler(log, "seed"),
		service:     service,
	}
}

// Seed handles POST /api/admin/seed
func (h *SeedHandler) Seed(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Seed(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "seed")
		return
	}

	utils.ResponseSuccess(w, "Seed completed", result)
}
