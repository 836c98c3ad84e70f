package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"movie-ticketing/internal/data/entity"
	"movie-ticketing/internal/usecase"
	"movie-ticketing/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth              *AuthHandler
	User              *UserHandler
	Movie             *MovieHandler
	Price             *PriceHandler
	Schedule          *ScheduleHandler
	Transaction       *TransactionHandler
	TransactionDetail *TransactionDetailHandler
	Review            *ReviewHandler
	Seed              *SeedHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:              NewAuthHandler(service.Auth, config.Session, log),
		User:              NewUserHandler(service.User, log),
		Movie:             NewMovieHandler(service.Movie, log),
		Price:             NewPriceHandler(service.Price, log),
		Schedule:          NewScheduleHandler(service.Schedule, log),
		Transaction:       NewTransactionHandler(service.Transaction, log),
		TransactionDetail: NewTransactionDetailHandler(service.TransactionDetail, log),
		Review:            NewReviewHandler(service.Review, log),
		Seed:              NewSeedHandler(service.Seed, log),
	}
}

// baseHandler carries the logger and the error mapping shared by every handler.
type baseHandler struct {
	log *zap.Logger
}

func newBaseHandler(log *zap.Logger, name string) baseHandler {
	return baseHandler{log: log.With(zap.String("handler", name))}
}

// handleServiceError maps service errors onto HTTP responses by their
// message vocabulary.
func (h baseHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		h.log.Info(operation+" validation failed",
			zap.String("operation", operation),
			zap.Any("errors", verr.Fields))
		utils.ResponseBadRequest(w, "Validation failed", verr.Fields)
		return
	}

	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found", zap.Error(err), zap.String("operation", operation))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "unauthorized"):
		h.log.Warn(operation+" failed - unauthorized", zap.Error(err), zap.String("operation", operation))
		utils.ResponseUnauthorized(w, strings.TrimPrefix(errMsg, "unauthorized: "))

	case strings.Contains(errMsg, "forbidden"):
		h.log.Warn(operation+" failed - forbidden", zap.Error(err), zap.String("operation", operation))
		utils.ResponseForbidden(w, strings.TrimPrefix(errMsg, "forbidden: "))

	case strings.Contains(errMsg, "already"), strings.Contains(errMsg, "cannot"):
		h.log.Warn(operation+" failed - conflict", zap.Error(err), zap.String("operation", operation))
		utils.ResponseConflict(w, errMsg)

	case strings.Contains(errMsg, "invalid"):
		h.log.Warn("Invalid input for "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseBadRequest(w, errMsg, nil)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// actor reads the caller set by the auth middleware, answering 401 when
// there is none.
func actor(w http.ResponseWriter, r *http.Request) (usecase.Actor, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return usecase.Actor{}, false
	}

	role, _ := utils.GetRoleFromContext(r.Context())
	return usecase.Actor{UserID: userID, Role: entity.UserRole(role)}, true
}
