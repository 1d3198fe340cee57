package repository

import (
	"context"
	"time"

	"github.com/yukikurage/taskassist-api/internal/database"
	"github.com/yukikurage/taskassist-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new GormTaskRepository
func NewTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// CreateTask creates a new task
func (r *GormTaskRepository) CreateTask(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindTaskByID finds a task by ID
func (r *GormTaskRepository) FindTaskByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

// ListTasks retrieves tasks with filtering and pagination
func (r *GormTaskRepository) ListTasks(ctx context.Context, query TaskQuery) ([]models.Task, int64, error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Task{}).Scopes(taskQueryScope(query))
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tasks := []models.Task{}
	err := base().
		Order("created_at DESC").
		Order("id DESC").
		Scopes(database.Paginate(query.Offset, query.Limit)).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// UpdateTask applies mutate inside a transaction so concurrent patches of
// the same task do not interleave their read and write.
func (r *GormTaskRepository) UpdateTask(ctx context.Context, id uint64, mutate func(*models.Task) error) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return translateError(err)
		}

		if err := mutate(&task); err != nil {
			return err
		}
		task.ID = id
		task.UpdatedAt = time.Now()

		return tx.Save(&task).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask deletes a task
func (r *GormTaskRepository) DeleteTask(ctx context.Context, id uint64) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.Task{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// TaskSummary counts total and completed tasks in the same scope.
func (r *GormTaskRepository) TaskSummary(ctx context.Context, participant *uint64) (models.TaskSummary, error) {
	scope := taskQueryScope(TaskQuery{Participant: participant})

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Task{}).Scopes(scope).Count(&total).Error; err != nil {
		return models.TaskSummary{}, err
	}

	var completed int64
	if err := r.db.WithContext(ctx).Model(&models.Task{}).Scopes(scope).
		Where("completed = ?", true).
		Count(&completed).Error; err != nil {
		return models.TaskSummary{}, err
	}

	return models.NewTaskSummary(total, completed), nil
}

func taskQueryScope(query TaskQuery) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch query.Filter {
		case FilterActive:
			db = db.Where("completed = ?", false)
		case FilterCompleted:
			db = db.Where("completed = ?", true)
		case FilterStarred:
			db = db.Where("starred = ?", true)
		}
		if p := query.Participant; p != nil {
			db = db.Where("user_id = ? OR assigned_to = ? OR assigned_by = ?", *p, *p, *p)
		}
		if query.AssignedTo != nil {
			db = db.Where("assigned_to = ?", *query.AssignedTo)
		}
		if query.AssignedBy != nil {
			db = db.Where("assigned_by = ?", *query.AssignedBy)
		}
		return db
	}
}
