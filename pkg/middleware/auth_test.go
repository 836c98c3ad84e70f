package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"movie-ticketing/internal/data/entity"
	"movie-ticketing/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.SessionIdentity
	err      error
}

func (f *fakeSessionRepo) Create(context.Context, *entity.Session) error { return nil }

func (f *fakeSessionRepo) FindValidSession(_ context.Context, token uuid.UUID) (*entity.SessionIdentity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sessions[token], nil
}

func (f *fakeSessionRepo) Revoke(context.Context, uuid.UUID) error                { return nil }
func (f *fakeSessionRepo) RevokeAllUserSessions(context.Context, uuid.UUID) error { return nil }
func (f *fakeSessionRepo) CleanExpiredSessions(context.Context) (int64, error)    { return 0, nil }

func newIdentity(role entity.UserRole, active bool) *entity.SessionIdentity {
	return &entity.SessionIdentity{
		Session: entity.Session{
			UserID:    uuid.New(),
			Token:     uuid.New(),
			ExpiresAt: time.Now().Add(time.Hour),
		},
		Role:     role,
		IsActive: active,
	}
}

func echoRole(w http.ResponseWriter, r *http.Request) {
	role, _ := utils.GetRoleFromContext(r.Context())
	w.Write([]byte(role))
}

func TestAuthSession(t *testing.T) {
	customer := newIdentity(entity.RoleCustomer, true)
	admin := newIdentity(entity.RoleAdmin, true)
	inactive := newIdentity(entity.RoleCustomer, false)
	repo := &fakeSessionRepo{sessions: map[uuid.UUID]*entity.SessionIdentity{
		customer.Token: customer,
		admin.Token:    admin,
		inactive.Token: inactive,
	}}

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "missing token",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "bearer header",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+customer.Token.String()) },
			wantStatus: http.StatusOK,
			wantBody:   "customer",
		},
		{
			name:       "lowercase scheme",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "bearer "+admin.Token.String()) },
			wantStatus: http.StatusOK,
			wantBody:   "admin",
		},
		{
			name: "cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "session_token", Value: admin.Token.String()})
			},
			wantStatus: http.StatusOK,
			wantBody:   "admin",
		},
		{
			name:       "malformed header",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", customer.Token.String()) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "not a uuid",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown session",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+uuid.NewString()) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "inactive account",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+inactive.Token.String()) },
			wantStatus: http.StatusForbidden,
		},
	}

	h := AuthSession(repo, "session_token", zap.NewNop())(http.HandlerFunc(echoRole))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestAuthSessionRepositoryError(t *testing.T) {
	repo := &fakeSessionRepo{err: errors.New("connection refused")}
	h := AuthSession(repo, "session_token", zap.NewNop())(http.HandlerFunc(echoRole))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+uuid.NewString())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireRole(t *testing.T) {
	h := Admin(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("customer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(utils.SetUserContext(req.Context(), uuid.New(), string(entity.RoleCustomer)))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(utils.SetUserContext(req.Context(), uuid.New(), string(entity.RoleAdmin)))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
