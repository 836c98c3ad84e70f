package cache

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"movie-ticketing/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestKey(t *testing.T) {
	r1 := httptest.NewRequest(http.MethodGet, "/api/schedules?theatre=theatre_1", nil)
	r2 := httptest.NewRequest(http.MethodGet, "/api/schedules?theatre=theatre_2", nil)

	k1 := Key("cache", GroupSchedules, r1)
	k2 := Key("cache", GroupSchedules, r2)

	assert.True(t, strings.HasPrefix(k1, "cache:schedules:"))
	assert.NotEqual(t, k1, k2, "query string must be part of the key")
	assert.Equal(t, k1, Key("cache", GroupSchedules, r1))
}

func TestMiddlewareDisabledWithoutClient(t *testing.T) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})

	h := Middleware(nil, utils.CacheConfig{Enabled: true}, GroupMovies, zap.NewNop())(next)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/movies", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, calls)
}

func TestNewInvalidatorWithoutClient(t *testing.T) {
	inv := NewInvalidator(nil, "cache", zap.NewNop())
	assert.IsType(t, NoopInvalidator{}, inv)
	assert.NotPanics(t, func() { inv.Invalidate(t.Context(), GroupMovies) })
}
