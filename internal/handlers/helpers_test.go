package handlers

import (
	"bytes"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskassist-api/internal/constants"
	"github.com/yukikurage/taskassist-api/internal/database"
	"github.com/yukikurage/taskassist-api/internal/middleware"
	"github.com/yukikurage/taskassist-api/internal/models"
	"github.com/yukikurage/taskassist-api/internal/repository"
	"github.com/yukikurage/taskassist-api/internal/token"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *repository.GormStore {
	t.Helper()

	cfg := database.Config(gin.ReleaseMode)
	cfg.Logger = logger.Discard

	// Create in-memory SQLite database
	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))
	return repository.NewGormStore(db)
}

func newTestTokens() *token.Manager {
	return token.NewManager("handler-test-secret", time.Hour)
}

// newContext builds a request context. A non-nil user is attached the way
// the auth middleware does it.
func newContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if user != nil {
		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyUserID, user.ID)
	}
	return c, w
}

// withID runs the ID param middleware as the router would.
func withID(c *gin.Context, key string, id uint64) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: strconv.FormatUint(id, 10)})
	middleware.RequireIDParam(key, key)(c)
}
