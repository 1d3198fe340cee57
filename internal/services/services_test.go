package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskassist-api/internal/models"
	"github.com/yukikurage/taskassist-api/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func mustCreateUser(t *testing.T, store repository.Store, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "secret1"}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}
