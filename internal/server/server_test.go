package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hongminglow/taskboard/internal/config"
	"github.com/hongminglow/taskboard/internal/models"
	"github.com/hongminglow/taskboard/internal/storage/memory"
)

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
	Pagination *struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	} `json:"pagination"`
}

type harness struct {
	t     *testing.T
	srv   *httptest.Server
	store *memory.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.New()
	cfg := config.Config{
		Port:        "0",
		Env:         "test",
		Store:       config.StoreMemory,
		JWTSecret:   "test-secret",
		JWTIssuer:   "taskboard-test",
		JWTTTL:      time.Hour,
		CORSOrigins: []string{"http://localhost:5173"},
		BcryptCost:  4,
	}
	handler, err := NewHandler(cfg, store, zap.NewNop())
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &harness{t: t, srv: srv, store: store}
}

func (h *harness) do(method, path, token string, body any) (int, envelope) {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, h.srv.URL+path, reader)
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(h.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (h *harness) register(email string) (token string, user models.User) {
	h.t.Helper()
	status, env := h.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": email, "password": "Secret123", "name": "Test User",
	})
	require.Equal(h.t, http.StatusCreated, status, env.Message)
	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(h.t, json.Unmarshal(env.Data, &out))
	return out.Token, out.User
}

func (h *harness) createTask(token, title string) models.Task {
	h.t.Helper()
	status, env := h.do(http.MethodPost, "/api/v1/tasks", token, map[string]string{"title": title})
	require.Equal(h.t, http.StatusCreated, status, env.Message)
	var out struct {
		Task models.Task `json:"task"`
	}
	require.NoError(h.t, json.Unmarshal(env.Data, &out))
	return out.Task
}

func TestUnauthenticatedIsRejectedBeforeAuthorization(t *testing.T) {
	h := newHarness(t)

	status, env := h.do(http.MethodGet, "/api/v1/tasks/3f1c9a52-0000-4d3e-8f00-000000000001", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authentication required. Please log in.", env.Message)

	status, _ = h.do(http.MethodGet, "/api/v1/admin/users", "bogus", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestTaskOwnershipScenarios(t *testing.T) {
	h := newHarness(t)
	aliceToken, _ := h.register("alice@example.com")
	bobToken, _ := h.register("bob@example.com")
	adminToken, admin := h.register("admin@example.com")
	_, err := h.store.UpdateUserRole(context.Background(), admin.ID, models.RoleAdmin)
	require.NoError(t, err)

	task := h.createTask(aliceToken, "Buy milk")

	status, _ := h.do(http.MethodGet, "/api/v1/tasks/"+task.ID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, status, "user B reading user A's task")

	status, _ = h.do(http.MethodPut, "/api/v1/tasks/"+task.ID, bobToken, map[string]string{"status": "COMPLETED"})
	assert.Equal(t, http.StatusForbidden, status)

	missing := "00000000-0000-4000-8000-000000000000"
	for _, token := range []string{aliceToken, bobToken, adminToken} {
		status, _ = h.do(http.MethodGet, "/api/v1/tasks/"+missing, token, nil)
		assert.Equal(t, http.StatusNotFound, status)
	}

	status, env := h.do(http.MethodGet, "/api/v1/tasks/not-a-uuid", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid task ID", env.Errors[0].Message)

	status, _ = h.do(http.MethodPut, "/api/v1/tasks/"+task.ID, aliceToken, map[string]string{"status": "COMPLETED"})
	assert.Equal(t, http.StatusOK, status, "PENDING straight to COMPLETED is allowed")

	status, _ = h.do(http.MethodDelete, "/api/v1/tasks/"+task.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, status, "admin deletes another user's task")

	status, _ = h.do(http.MethodDelete, "/api/v1/tasks/"+task.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListEnvelopeAndFilters(t *testing.T) {
	h := newHarness(t)
	token, _ := h.register("alice@example.com")
	for i := 0; i < 11; i++ {
		h.createTask(token, fmt.Sprintf("chore %d", i))
	}
	h.createTask(token, "Buy milk")

	status, env := h.do(http.MethodGet, "/api/v1/tasks?limit=10&page=2", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 12, env.Pagination.Total)
	assert.Equal(t, 2, env.Pagination.TotalPages)

	status, env = h.do(http.MethodGet, "/api/v1/tasks?search=MILK", token, nil)
	require.Equal(t, http.StatusOK, status)
	var out struct {
		Tasks []models.Task `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.Len(t, out.Tasks, 1)
	assert.Equal(t, "Buy milk", out.Tasks[0].Title)

	status, env = h.do(http.MethodGet, "/api/v1/tasks?sortBy=password", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation failed", env.Message)

	status, env = h.do(http.MethodGet, "/api/v1/tasks/stats", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"stats":{"total":12,"pending":12,"inProgress":0,"completed":0}}`, string(env.Data))
}

func TestAdminRoutes(t *testing.T) {
	h := newHarness(t)
	userToken, user := h.register("alice@example.com")
	adminToken, admin := h.register("admin@example.com")
	_, err := h.store.UpdateUserRole(context.Background(), admin.ID, models.RoleAdmin)
	require.NoError(t, err)
	h.createTask(userToken, "alice task")
	h.createTask(adminToken, "admin task")

	status, env := h.do(http.MethodGet, "/api/v1/admin/tasks", userToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Access denied. Required roles: ADMIN", env.Message)

	status, env = h.do(http.MethodGet, "/api/v1/admin/tasks", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, env.Pagination.Total)

	status, env = h.do(http.MethodGet, "/api/v1/tasks", adminToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, env.Pagination.Total, "admin's own list stays owner-scoped")

	status, _ = h.do(http.MethodGet, "/api/v1/admin/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = h.do(http.MethodDelete, "/api/v1/admin/users/"+user.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = h.do(http.MethodGet, "/api/v1/auth/me", userToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "User no longer exists", env.Message)

	status, _ = h.do(http.MethodDelete, "/api/v1/admin/users/"+user.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAuthFlow(t *testing.T) {
	h := newHarness(t)
	h.register("alice@example.com")

	status, env := h.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "ALICE@example.com", "password": "Secret123", "name": "Again",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "User with this email already exists", env.Message)

	status, env = h.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": "bad", "password": "x", "name": "",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, env.Errors)

	status, env = h.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", env.Message)

	status, env = h.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "Secret123",
	})
	require.Equal(t, http.StatusOK, status)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))

	status, _ = h.do(http.MethodGet, "/api/v1/auth/me", out.Token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = h.do(http.MethodPost, "/api/v1/auth/logout", out.Token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestLoginSetsTokenCookie(t *testing.T) {
	h := newHarness(t)
	h.register("alice@example.com")

	resp, err := http.Post(h.srv.URL+"/api/v1/auth/login", "application/json",
		bytes.NewBufferString(`{"email":"alice@example.com","password":"Secret123"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	req, err := http.NewRequest(http.MethodGet, h.srv.URL+"/api/v1/tasks", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	listResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer listResp.Body.Close()
	assert.Equal(t, http.StatusOK, listResp.StatusCode)
}

func TestUnknownRouteAndHealth(t *testing.T) {
	h := newHarness(t)

	status, env := h.do(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Route GET /api/v1/nope not found", env.Message)

	status, env = h.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}
