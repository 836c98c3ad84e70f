package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"movie-ticketing/internal/data/entity"
	"movie-ticketing/internal/dto/request"
	"movie-ticketing/internal/dto/response"
	"movie-ticketing/internal/usecase"
	"movie-ticketing/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeScheduleService struct {
	usecase.ScheduleService
	gotFilter *request.ScheduleFilterRequest
	createErr error
}

func (f *fakeScheduleService) GetSchedules(_ context.Context, req *request.ScheduleFilterRequest) (*response.ScheduleIndexResponse, error) {
	f.gotFilter = req
	return &response.ScheduleIndexResponse{
		Schedules:      []response.ScheduleResponse{},
		TheatreOptions: []entity.Theatre{entity.Theatre1, entity.Theatre2},
	}, nil
}

func (f *fakeScheduleService) CreateSchedule(_ context.Context, _ *request.ScheduleRequest) (*response.ScheduleResponse, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &response.ScheduleResponse{ID: uuid.NewString()}, nil
}

type fakeTransactionService struct {
	usecase.TransactionService
	gotActor usecase.Actor
	gotID    string
	err      error
}

func (f *fakeTransactionService) Checkout(_ context.Context, actor usecase.Actor, id string) (*response.TransactionResponse, error) {
	f.gotActor = actor
	f.gotID = id
	if f.err != nil {
		return nil, f.err
	}
	confirmation := int64(80001)
	return &response.TransactionResponse{ID: id, ConfirmationNumber: &confirmation, Status: entity.TransactionStatusPurchased}, nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var body utils.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func asCustomer(r *http.Request, userID uuid.UUID) *http.Request {
	return r.WithContext(utils.SetUserContext(r.Context(), userID, string(entity.RoleCustomer)))
}

func TestGetSchedulesPassesQueryFilters(t *testing.T) {
	svc := &fakeScheduleService{}
	h := NewScheduleHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Get("/api/schedules", h.GetSchedules)

	req := httptest.NewRequest(http.MethodGet,
		"/api/schedules?theatre=theatre_1&start_date=2026-03-02&end_date=2026-03-03&search=park&mpaa_rating=PG-13", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotFilter)
	assert.Equal(t, "theatre_1", svc.gotFilter.Theatre)
	assert.Equal(t, "2026-03-02", svc.gotFilter.StartDate)
	assert.Equal(t, "2026-03-03", svc.gotFilter.EndDate)
	assert.Equal(t, "park", svc.gotFilter.Search)
	assert.Equal(t, "PG-13", svc.gotFilter.MPAARating)
}

func TestCreateScheduleErrorMapping(t *testing.T) {
	gapErr := usecase.NewValidationError()
	gapErr.Add("start_time", "must start at least 25 minutes after the previous showing ends")
	gapErr.Add("start_time", "leaves more than 45 minutes before the next showing")

	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"created", `{"theatre":"theatre_1"}`, nil, http.StatusCreated, "Schedule created successfully"},
		{"malformed body", `{`, nil, http.StatusBadRequest, "Invalid request body"},
		{"gap violations", `{}`, gapErr, http.StatusBadRequest, "Validation failed"},
		{"missing movie", `{}`, errors.New("movie not found"), http.StatusNotFound, "movie not found"},
		{"duplicate", `{}`, errors.New("theatre_1 already has a showing at that time"), http.StatusConflict, ""},
		{"invalid id", `{}`, errors.New("invalid schedule ID"), http.StatusBadRequest, "invalid schedule ID"},
		{"unexpected", `{}`, errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewScheduleHandler(&fakeScheduleService{createErr: tt.err}, zap.NewNop())

			req := httptest.NewRequest(http.MethodPost, "/api/admin/schedules", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.CreateSchedule(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			body := decodeBody(t, rec)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body.Message)
			}
		})
	}
}

func TestValidationErrorKeepsEveryMessage(t *testing.T) {
	gapErr := usecase.NewValidationError()
	gapErr.Add("start_time", "first")
	gapErr.Add("start_time", "second")
	h := NewScheduleHandler(&fakeScheduleService{createErr: gapErr}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.CreateSchedule(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, []string{"first", "second"}, body.Errors["start_time"])
}

func TestCheckoutRequiresCaller(t *testing.T) {
	svc := &fakeTransactionService{}
	h := NewTransactionHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/api/transactions/{id}/checkout", h.Checkout)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/transactions/abc/checkout", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.gotID)
}

func TestCheckoutPassesActorAndID(t *testing.T) {
	svc := &fakeTransactionService{}
	h := NewTransactionHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/api/transactions/{id}/checkout", h.Checkout)

	userID := uuid.New()
	txnID := uuid.NewString()
	req := asCustomer(httptest.NewRequest(http.MethodPost, "/api/transactions/"+txnID+"/checkout", nil), userID)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, txnID, svc.gotID)
	assert.Equal(t, userID, svc.gotActor.UserID)
	assert.Equal(t, entity.RoleCustomer, svc.gotActor.Role)
}

func TestCheckoutForbiddenAndConflict(t *testing.T) {
	tests := []struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		{errors.New("forbidden: not your transaction"), http.StatusForbidden, "not your transaction"},
		{errors.New("cannot checkout an empty transaction"), http.StatusConflict, "cannot checkout an empty transaction"},
		{errors.New("transaction not found"), http.StatusNotFound, "transaction not found"},
	}

	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			h := NewTransactionHandler(&fakeTransactionService{err: tt.err}, zap.NewNop())

			req := asCustomer(httptest.NewRequest(http.MethodPost, "/", nil), uuid.New())
			rec := httptest.NewRecorder()
			h.Checkout(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, rec).Message)
		})
	}
}
