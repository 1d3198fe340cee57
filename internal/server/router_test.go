package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskassist-api/internal/config"
	"github.com/yukikurage/taskassist-api/internal/database"
	"github.com/yukikurage/taskassist-api/internal/models"
	"github.com/yukikurage/taskassist-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "router-test-secret",
		JWTExpirationHours: 1,
		AllowedOrigins:     "*",
		SummaryScope:       config.SummaryScopeGlobal,
	}
}

func sqliteStore(t *testing.T) repository.Store {
	t.Helper()
	cfg := database.Config(gin.ReleaseMode)
	cfg.Logger = logger.Discard

	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return repository.NewGormStore(db)
}

type client struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newClient(t *testing.T, store repository.Store) *client {
	gin.SetMode(gin.TestMode)
	return &client{t: t, router: NewRouter(testConfig(), store, nil)}
}

func (cl *client) do(method, path string, body any) *httptest.ResponseRecorder {
	cl.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(cl.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.token != "" {
		req.Header.Set("Authorization", "Bearer "+cl.token)
	}

	w := httptest.NewRecorder()
	cl.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type authBody struct {
	User struct {
		ID       uint64 `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
	Token string `json:"token"`
}

type summaryBody struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
}

func stores(t *testing.T) map[string]func() repository.Store {
	return map[string]func() repository.Store{
		"memory": func() repository.Store { return repository.NewMemoryStore() },
		"sqlite": func() repository.Store { return sqliteStore(t) },
	}
}

func TestRouter_AuthAndTaskLifecycle(t *testing.T) {
	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			cl := newClient(t, newStore())

			w := cl.do(http.MethodPost, "/api/auth/register", map[string]any{"username": "alice", "password": "secret1"})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			assert.NotContains(t, w.Body.String(), "password")
			registered := decode[authBody](t, w)
			assert.NotEmpty(t, registered.Token)

			w = cl.do(http.MethodPost, "/api/auth/register", map[string]any{"username": "alice", "password": "another1"})
			assert.Equal(t, http.StatusBadRequest, w.Code)

			w = cl.do(http.MethodPost, "/api/auth/login", map[string]any{"username": "alice", "password": "wrong"})
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			w = cl.do(http.MethodPost, "/api/auth/login", map[string]any{"username": "alice", "password": "secret1"})
			require.Equal(t, http.StatusOK, w.Code)
			cl.token = decode[authBody](t, w).Token

			w = cl.do(http.MethodGet, "/api/auth/me", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `"username":"alice"`)
			assert.NotContains(t, w.Body.String(), "password")

			w = cl.do(http.MethodPost, "/api/tasks", map[string]any{"title": "T1", "userId": registered.User.ID})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

			w = cl.do(http.MethodGet, "/api/tasks/summary", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, summaryBody{Total: 1, Completed: 0, Pending: 1}, decode[summaryBody](t, w))

			w = cl.do(http.MethodPatch, "/api/tasks/1", map[string]any{"completed": true})
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			w = cl.do(http.MethodGet, "/api/tasks/summary", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, summaryBody{Total: 1, Completed: 1, Pending: 0}, decode[summaryBody](t, w))

			w = cl.do(http.MethodGet, "/api/tasks/summary?scope=user", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, int64(1), decode[summaryBody](t, w).Total)

			w = cl.do(http.MethodDelete, "/api/tasks/1", nil)
			assert.Equal(t, http.StatusNoContent, w.Code)
			w = cl.do(http.MethodGet, "/api/tasks/1", nil)
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestRouter_TeamMembersAreSymmetric(t *testing.T) {
	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			cl := newClient(t, newStore())

			for _, username := range []string{"alice", "bob"} {
				w := cl.do(http.MethodPost, "/api/auth/register", map[string]any{"username": username, "password": "secret1"})
				require.Equal(t, http.StatusCreated, w.Code)
				cl.token = decode[authBody](t, w).Token
			}

			w := cl.do(http.MethodPost, "/api/team-members", map[string]any{"userId1": 1, "userId2": 2})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

			for _, path := range []string{"/api/team-members/1", "/api/team-members/2"} {
				w = cl.do(http.MethodGet, path, nil)
				require.Equal(t, http.StatusOK, w.Code)
				assert.Len(t, decode[[]map[string]any](t, w), 1)
				assert.NotContains(t, w.Body.String(), "password")
			}

			w = cl.do(http.MethodPost, "/api/team-members", map[string]any{"userId1": 2, "userId2": 1})
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "CONFLICT")

			w = cl.do(http.MethodGet, "/api/users/search?q=al", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Len(t, decode[[]map[string]any](t, w), 1)
			assert.NotContains(t, w.Body.String(), "password")
		})
	}
}

func TestRouter_DelegationListings(t *testing.T) {
	cl := newClient(t, repository.NewMemoryStore())

	for _, username := range []string{"alice", "bob"} {
		w := cl.do(http.MethodPost, "/api/auth/register", map[string]any{"username": username, "password": "secret1"})
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w := cl.do(http.MethodPost, "/api/auth/login", map[string]any{"username": "alice", "password": "secret1"})
	cl.token = decode[authBody](t, w).Token

	w = cl.do(http.MethodPost, "/api/tasks", map[string]any{"title": "review", "assignedTo": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[map[string]any](t, w)
	assert.Equal(t, float64(1), created["userId"])
	assert.Equal(t, float64(2), created["assignedTo"])
	assert.Equal(t, float64(1), created["assignedBy"])

	w = cl.do(http.MethodGet, "/api/tasks/assigned/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = cl.do(http.MethodGet, "/api/tasks/assigned-by/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = cl.do(http.MethodGet, "/api/tasks/user/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"delegated_to_self"`)

	w = cl.do(http.MethodPost, "/api/tasks/1/unassign", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = cl.do(http.MethodGet, "/api/tasks/assigned/2", nil)
	assert.Len(t, decode[[]map[string]any](t, w), 0)
}

// countingStore records user lookups so tests can see how often a token is
// resolved.
type countingStore struct {
	*repository.MemoryStore
	lookups int
}

func (s *countingStore) FindUserByID(ctx context.Context, id uint64) (*models.User, error) {
	s.lookups++
	return s.MemoryStore.FindUserByID(ctx, id)
}

func TestRouter_GenerateResolvesTokenOnce(t *testing.T) {
	store := &countingStore{MemoryStore: repository.NewMemoryStore()}
	cl := newClient(t, store)

	w := cl.do(http.MethodPost, "/api/auth/register", map[string]any{"username": "alice", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code)
	cl.token = decode[authBody](t, w).Token

	store.lookups = 0
	w = cl.do(http.MethodPost, "/api/tasks/generate", map[string]any{"text": "plan a trip"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, 1, store.lookups)
}

func TestRouter_ProjectVisibility(t *testing.T) {
	for name, newStore := range stores(t) {
		t.Run(name, func(t *testing.T) {
			cl := newClient(t, newStore())

			tokens := map[string]string{}
			for _, username := range []string{"alice", "bob"} {
				w := cl.do(http.MethodPost, "/api/auth/register", map[string]any{"username": username, "password": "secret1"})
				require.Equal(t, http.StatusCreated, w.Code)
				tokens[username] = decode[authBody](t, w).Token
			}

			cl.token = tokens["bob"]
			for _, body := range []map[string]any{
				{"name": "Garden", "color": "green", "isPublic": true},
				{"name": "Diary", "color": "black"},
			} {
				w := cl.do(http.MethodPost, "/api/projects", body)
				require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			}

			w := cl.do(http.MethodGet, "/api/projects/user/2", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Len(t, decode[[]map[string]any](t, w), 2)

			w = cl.do(http.MethodGet, "/api/projects/accessible/1", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `[]`, w.Body.String())

			w = cl.do(http.MethodPost, "/api/team-members", map[string]any{"userId1": 1, "userId2": 2})
			require.Equal(t, http.StatusCreated, w.Code)

			w = cl.do(http.MethodGet, "/api/projects/accessible/1", nil)
			require.Equal(t, http.StatusOK, w.Code)
			projects := decode[[]map[string]any](t, w)
			require.Len(t, projects, 1)
			assert.Equal(t, "Garden", projects[0]["name"])

			w = cl.do(http.MethodGet, "/api/projects/accessible/abc", nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRouter_RegisterPasswordByteLimit(t *testing.T) {
	cl := newClient(t, repository.NewMemoryStore())

	// 40 characters, 80 bytes
	w := cl.do(http.MethodPost, "/api/auth/register", map[string]any{"username": "alice", "password": strings.Repeat("é", 40)})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"field":"password"`)

	w = cl.do(http.MethodPost, "/api/auth/register", map[string]any{"username": "alice", "password": strings.Repeat("é", 36)})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"updatedAt"`)
}

func TestRouter_Guards(t *testing.T) {
	cl := newClient(t, repository.NewMemoryStore())

	w := cl.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = cl.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cl.token = "not-a-jwt"
	w = cl.do(http.MethodGet, "/api/users/search?q=a", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	cl.token = ""

	w = cl.do(http.MethodGet, "/api/tasks/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = cl.do(http.MethodGet, "/api/tasks/0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = cl.do(http.MethodGet, "/api/tasks?filter=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = cl.do(http.MethodGet, "/api/tasks/summary?scope=user", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = cl.do(http.MethodPost, "/api/tasks/generate", map[string]any{"text": "plan a trip"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = cl.do(http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}
