package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/service"
)

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	return newServerWith(t, Deps{})
}

// newServerWith wires the full route table; a Redis client in d also
// subscribes the cache invalidator to the store.
func newServerWith(t *testing.T, d Deps) *echo.Echo {
	t.Helper()
	cfg := config.Config{JWTSecret: "s3cret", AccessTTLMin: 5, BcryptCost: 4}
	users := repository.NewMemoryUserRepo()
	require.NoError(t, repository.SeedDemoUsers(context.Background(), users, cfg.BcryptCost))

	store := repository.NewStore(repository.DefaultSettings(), repository.DemoReservations())
	svc := service.NewReservationService(store, queue.MultiNotifier{})

	if inv := middleware.CacheInvalidator(d.Cache, d.Redis); inv != nil {
		t.Cleanup(svc.Subscribe(inv))
	}

	e := echo.New()
	d.JWTSecret = cfg.JWTSecret
	RegisterRoutes(e)
	RegisterAuth(e, handler.NewAuthHandler(cfg, users), d)
	RegisterReservations(e, handler.NewReservationHandler(svc), d)
	RegisterAdmin(e, handler.NewAdminHandler(svc), d)
	return e
}

func do(e *echo.Echo, method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, email, password string) string {
	t.Helper()
	rec := do(e, http.MethodPost, "/v1/auth/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Access.Token
}

func TestPublicRoutes(t *testing.T) {
	e := newServer(t)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/v1/settings", "", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/v1/availability?date=2024-06-01&guests=2", "", "").Code)
}

func TestBookingFlowThroughRoutes(t *testing.T) {
	e := newServer(t)
	token := login(t, e, "joao@email.com", "123456")

	rec := do(e, http.MethodPost, "/v1/reservations",
		`{"date":"2099-06-01","time":"18:00","guests":8,"payment_confirmed":true}`, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var r model.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	assert.Equal(t, "2", r.UserID)

	rec = do(e, http.MethodGet, "/v1/availability?date=2099-06-01&guests=8", "", "")
	assert.NotContains(t, rec.Body.String(), `"18:00"`)

	rec = do(e, http.MethodGet, "/v1/my-reservations", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var ov service.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ov))
	require.Len(t, ov.Active, 1)
	assert.Equal(t, r.ID, ov.Active[0].ID)

	assert.Equal(t, http.StatusOK, do(e, http.MethodDelete, "/v1/reservations/"+r.ID, "", token).Code)
	rec = do(e, http.MethodGet, "/v1/availability?date=2099-06-01&guests=8", "", "")
	assert.Contains(t, rec.Body.String(), `"18:00"`)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	e := newServer(t)
	customer := login(t, e, "joao@email.com", "123456")
	admin := login(t, e, "admin@restaurant.com", "admin123")

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/v1/admin/stats", "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodGet, "/v1/admin/stats", "", customer).Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/v1/admin/stats", "", admin).Code)

	rec := do(e, http.MethodPut, "/v1/admin/settings", `{"slot_duration":60}`, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(e, http.MethodGet, "/v1/availability?date=2024-06-01&guests=2", "", "")
	assert.Contains(t, rec.Body.String(), `"slots":["18:00","19:00","20:00","21:00","22:00"]`)

	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/v1/me", "", "").Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/v1/me", "", admin).Code)
}

func TestBookingInvalidatesCachedAvailability(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	e := newServerWith(t, Deps{
		Redis: rdb,
		Cache: config.CacheConfig{
			Enabled:     true,
			Methods:     map[string]bool{"GET": true},
			TTL:         time.Minute,
			KeyStrategy: "route_query",
			Prefix:      "cache",
		},
	})
	const target = "/v1/availability?date=2099-06-01&guests=8"

	rec := do(e, http.MethodGet, target, "", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	rec = do(e, http.MethodGet, target, "", "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Contains(t, rec.Body.String(), `"18:00"`)

	rec = do(e, http.MethodPost, "/v1/reservations",
		`{"customer_name":"Ana","customer_email":"ana@email.com","customer_phone":"11999990000","date":"2099-06-01","time":"18:00","guests":8,"payment_confirmed":true}`, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, target, "", "")
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.NotContains(t, rec.Body.String(), `"18:00"`)
	rec = do(e, http.MethodGet, target, "", "")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.NotContains(t, rec.Body.String(), `"18:00"`)
}
