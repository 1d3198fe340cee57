package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/taskassist-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Discard,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestGormTaskRepository_DeleteMissingTask(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "tasks" WHERE "tasks"."id" = $1`)).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteTask(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_FindTaskNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE "tasks"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}))

	_, err := repo.FindTaskByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTaskRepository_DriverErrorIsNotNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "tasks"`).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := repo.FindTaskByID(context.Background(), 7)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestGormTaskRepository_TaskSummaryForParticipant(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE user_id = \$1 OR assigned_to = \$2 OR assigned_by = \$3`).
		WithArgs(3, 3, 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE \(user_id = \$1 OR assigned_to = \$2 OR assigned_by = \$3\) AND completed = \$4`).
		WithArgs(3, 3, 3, true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	participant := uint64(3)
	summary, err := repo.TaskSummary(context.Background(), &participant)
	require.NoError(t, err)
	assert.Equal(t, models.TaskSummary{Total: 5, Completed: 2, Pending: 3}, summary)
	assert.NoError(t, mock.ExpectationsWereMet())
}
