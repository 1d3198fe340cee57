package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/taskassist-api/internal/errors"
	"github.com/yukikurage/taskassist-api/internal/models"
	"github.com/yukikurage/taskassist-api/internal/repository"
	"github.com/yukikurage/taskassist-api/internal/services"
)

func seedUsers(t *testing.T, store *repository.GormStore, names ...string) []*models.User {
	t.Helper()
	users := make([]*models.User, 0, len(names))
	for _, name := range names {
		email := name + "@example.com"
		u := &models.User{Username: name, Password: "secret1", Email: &email}
		require.NoError(t, store.CreateUser(context.Background(), u))
		users = append(users, u)
	}
	return users
}

func TestTeamHandler_AddAndList(t *testing.T) {
	store := newTestStore(t)
	users := seedUsers(t, store, "alice", "bob")
	handler := NewTeamHandler(services.NewTeamService(store))

	c, w := newContext(http.MethodPost, "/api/team-members", []byte(`{"userId1": 1, "userId2": 2}`), users[0])
	handler.AddTeamMember(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Contains(t, w.Body.String(), `"username":"bob"`)

	// bob sees alice without a second request
	c, w = newContext(http.MethodGet, "/api/team-members/2", nil, users[1])
	withID(c, "userId", users[1].ID)
	handler.ListTeamMembers(c)
	require.Equal(t, http.StatusOK, w.Code)

	var members []struct {
		Connection models.TeamMember `json:"connection"`
		User       struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &members))
	require.Len(t, members, 1)
	assert.Equal(t, "alice", members[0].User.Username)
	assert.Equal(t, users[1].ID, members[0].Connection.UserID1)
}

func TestTeamHandler_Errors(t *testing.T) {
	store := newTestStore(t)
	users := seedUsers(t, store, "alice", "bob")
	handler := NewTeamHandler(services.NewTeamService(store))

	tests := []struct {
		name string
		body string
		code string
	}{
		{"self", `{"userId1": 1, "userId2": 1}`, apierrors.ErrCodeInvalidInput},
		{"missing user", `{"userId1": 1, "userId2": 9}`, apierrors.ErrCodeInvalidInput},
		{"missing field", `{"userId1": 1}`, apierrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext(http.MethodPost, "/api/team-members", []byte(tt.body), users[0])
			handler.AddTeamMember(c)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body apierrors.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
		})
	}

	c, w := newContext(http.MethodPost, "/api/team-members", []byte(`{"userId1": 1, "userId2": 2}`), users[0])
	handler.AddTeamMember(c)
	require.Equal(t, http.StatusCreated, w.Code)

	// the reverse direction already exists
	c, w = newContext(http.MethodPost, "/api/team-members", []byte(`{"userId1": 2, "userId2": 1}`), users[1])
	handler.AddTeamMember(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apierrors.ErrCodeConflict)
}

func TestProjectHandler(t *testing.T) {
	store := newTestStore(t)
	users := seedUsers(t, store, "alice")
	handler := NewProjectHandler(services.NewProjectService(store))

	c, w := newContext(http.MethodPost, "/api/projects", []byte(`{"name": "Work", "color": "#ff0000"}`), users[0])
	handler.CreateProject(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var project models.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))
	assert.Equal(t, users[0].ID, project.UserID)
	assert.False(t, project.IsPublic)

	c, w = newContext(http.MethodPost, "/api/projects", []byte(`{"name": "Home"}`), users[0])
	handler.CreateProject(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newContext(http.MethodGet, "/api/projects", nil, nil)
	handler.ListProjects(c)
	require.Equal(t, http.StatusOK, w.Code)
	var projects []models.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &projects))
	assert.Len(t, projects, 1)

	c, w = newContext(http.MethodGet, "/api/projects/1", nil, nil)
	withID(c, "id", project.ID)
	handler.GetProject(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newContext(http.MethodGet, "/api/projects/7", nil, nil)
	withID(c, "id", 7)
	handler.GetProject(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler(t *testing.T) {
	store := newTestStore(t)
	users := seedUsers(t, store, "alice", "bob")
	handler := NewUserHandler(services.NewUserService(store))

	c, w := newContext(http.MethodGet, "/api/users/search?q=ALI", nil, users[1])
	handler.SearchUsers(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.NotContains(t, w.Body.String(), "bob")
	assert.NotContains(t, w.Body.String(), "password")

	c, w = newContext(http.MethodGet, "/api/users/search", nil, users[1])
	handler.SearchUsers(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newContext(http.MethodGet, "/api/users/2", nil, users[0])
	withID(c, "id", users[1].ID)
	handler.GetUser(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"bob"`)

	c, w = newContext(http.MethodGet, "/api/users/42", nil, users[0])
	withID(c, "id", 42)
	handler.GetUser(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
