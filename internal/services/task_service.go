package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/taskassist-api/internal/config"
	"github.com/yukikurage/taskassist-api/internal/constants"
	apierrors "github.com/yukikurage/taskassist-api/internal/errors"
	"github.com/yukikurage/taskassist-api/internal/models"
	"github.com/yukikurage/taskassist-api/internal/repository"
)

var (
	ErrTaskNotFound           = apierrors.New(apierrors.ErrNotFound, "Task not found")
	ErrSummaryNeedsUser       = apierrors.New(apierrors.ErrAuthentication, "Authentication required for a per-user summary")
	ErrAIServiceNotConfigured = apierrors.New(apierrors.ErrUnavailable, "AI service is not configured")
	ErrAINoTasksGenerated     = apierrors.New(apierrors.ErrValidation, "AI did not generate any tasks")
	ErrAINoValidTasks         = apierrors.New(apierrors.ErrValidation, "No valid tasks could be created from AI output")
)

// Task categories for per-user listings
const (
	CategoryAll      = "all"
	CategoryOwn      = "own"
	CategoryAssigned = "assigned"
)

// TaskService handles task business logic
type TaskService struct {
	tasks        repository.TaskRepository
	users        repository.UserRepository
	ai           TaskGenerator
	summaryScope string
}

// NewTaskService creates a new TaskService. ai may be nil, in which case
// task generation reports the service as unavailable.
func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository, ai TaskGenerator, summaryScope string) *TaskService {
	if summaryScope == "" {
		summaryScope = config.SummaryScopeGlobal
	}
	return &TaskService{
		tasks:        tasks,
		users:        users,
		ai:           ai,
		summaryScope: summaryScope,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Filter string
	Offset int
	Limit  int
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description *string
	Completed   bool
	ProjectID   *uint64
	DueDate     *time.Time
	Priority    *models.TaskPriority
	Starred     bool
	AssignedTo  *uint64
	UserID      *uint64
	TeamID      *uint64
	// ActorID is the authenticated caller, if any.
	ActorID *uint64
}

// UpdateTaskInput represents a partial update. A Clear flag wins over the
// matching value field.
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Completed        *bool
	ProjectID        *uint64
	ClearProjectID   bool
	DueDate          *time.Time
	ClearDueDate     bool
	Priority         *models.TaskPriority
	ClearPriority    bool
	Starred          *bool
	AssignedTo       *uint64
	ClearAssignedTo  bool
	TeamID           *uint64
	ClearTeamID      bool
	ActorID          *uint64
}

// ListTasks returns every task matching the filter, newest first, and the
// match count before pagination.
func (s *TaskService) ListTasks(ctx context.Context, input ListTasksInput) ([]models.Task, int64, error) {
	filter, err := parseFilter(input.Filter)
	if err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.tasks.ListTasks(ctx, repository.TaskQuery{
		Filter: filter,
		Offset: input.Offset,
		Limit:  input.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// ListUserTasks returns the tasks userID created, received or delegated,
// narrowed by completion filter and by category relative to that user.
func (s *TaskService) ListUserTasks(ctx context.Context, userID uint64, filter, category string) ([]models.Task, error) {
	f, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}

	var keep func(models.TaskRelation) bool
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "", CategoryAll:
	case CategoryOwn:
		keep = models.TaskRelation.IsOwn
	case CategoryAssigned:
		keep = models.TaskRelation.IsAssignment
	default:
		return nil, apierrors.NewValidationError("category", "must be one of all, own, assigned")
	}

	tasks, _, err := s.tasks.ListTasks(ctx, repository.TaskQuery{Filter: f, Participant: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list user tasks: %w", err)
	}
	if keep == nil {
		return tasks, nil
	}

	selected := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if keep(task.RelationTo(userID)) {
			selected = append(selected, task)
		}
	}
	return selected, nil
}

// ListAssignedTo returns tasks delegated to userID.
func (s *TaskService) ListAssignedTo(ctx context.Context, userID uint64, filter string) ([]models.Task, error) {
	f, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}
	tasks, _, err := s.tasks.ListTasks(ctx, repository.TaskQuery{Filter: f, AssignedTo: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned tasks: %w", err)
	}
	return tasks, nil
}

// ListAssignedBy returns tasks userID delegated to someone.
func (s *TaskService) ListAssignedBy(ctx context.Context, userID uint64, filter string) ([]models.Task, error) {
	f, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}
	tasks, _, err := s.tasks.ListTasks(ctx, repository.TaskQuery{Filter: f, AssignedBy: &userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list delegated tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task
func (s *TaskService) GetTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.tasks.FindTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask creates a new task. The owner is the given userId or, when
// absent, the authenticated caller.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	owner := input.UserID
	if owner == nil {
		owner = input.ActorID
	}
	if owner == nil {
		return nil, apierrors.NewValidationError("userId", "is required")
	}

	priority := input.Priority
	if priority == nil {
		medium := models.PriorityMedium
		priority = &medium
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		ProjectID:   input.ProjectID,
		DueDate:     input.DueDate,
		Priority:    priority,
		Starred:     input.Starred,
		UserID:      *owner,
		TeamID:      input.TeamID,
	}

	if input.AssignedTo != nil {
		if err := s.ensureUserExists(ctx, "assignedTo", *input.AssignedTo); err != nil {
			return nil, err
		}
		task.AssignTo(*input.AssignedTo, actorOr(input.ActorID, *owner))
	}

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// UpdateTask merges the given fields over the stored task. Assignment
// changes always set both assignedTo and assignedBy.
func (s *TaskService) UpdateTask(ctx context.Context, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	if input.AssignedTo != nil && !input.ClearAssignedTo {
		if err := s.ensureUserExists(ctx, "assignedTo", *input.AssignedTo); err != nil {
			return nil, err
		}
	}

	task, err := s.tasks.UpdateTask(ctx, taskID, func(t *models.Task) error {
		if input.Title != nil {
			t.Title = *input.Title
		}
		if input.ClearDescription {
			t.Description = nil
		} else if input.Description != nil {
			t.Description = input.Description
		}
		if input.Completed != nil {
			t.Completed = *input.Completed
		}
		if input.ClearProjectID {
			t.ProjectID = nil
		} else if input.ProjectID != nil {
			t.ProjectID = input.ProjectID
		}
		if input.ClearDueDate {
			t.DueDate = nil
		} else if input.DueDate != nil {
			t.DueDate = input.DueDate
		}
		if input.ClearPriority {
			t.Priority = nil
		} else if input.Priority != nil {
			t.Priority = input.Priority
		}
		if input.Starred != nil {
			t.Starred = *input.Starred
		}
		if input.ClearTeamID {
			t.TeamID = nil
		} else if input.TeamID != nil {
			t.TeamID = input.TeamID
		}
		if input.ClearAssignedTo {
			t.Unassign()
		} else if input.AssignedTo != nil {
			t.AssignTo(*input.AssignedTo, actorOr(input.ActorID, t.UserID))
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask deletes a task
func (s *TaskService) DeleteTask(ctx context.Context, taskID uint64) error {
	deleted, err := s.tasks.DeleteTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return ErrTaskNotFound
	}
	return nil
}

// AssignTask delegates a task to assignee on behalf of the caller.
func (s *TaskService) AssignTask(ctx context.Context, taskID, assignee uint64, actorID *uint64) (*models.Task, error) {
	return s.UpdateTask(ctx, taskID, UpdateTaskInput{AssignedTo: &assignee, ActorID: actorID})
}

// UnassignTask clears the delegation of a task.
func (s *TaskService) UnassignTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	return s.UpdateTask(ctx, taskID, UpdateTaskInput{ClearAssignedTo: true})
}

// ToggleTask flips the completed flag
func (s *TaskService) ToggleTask(ctx context.Context, taskID uint64) (*models.Task, error) {
	task, err := s.tasks.UpdateTask(ctx, taskID, func(t *models.Task) error {
		t.Completed = !t.Completed
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to toggle task: %w", err)
	}
	return task, nil
}

// Summary counts tasks. scope is "global" or "user"; empty uses the
// configured default. A user summary covers tasks the caller created,
// received or delegated.
func (s *TaskService) Summary(ctx context.Context, scope string, actorID *uint64) (models.TaskSummary, error) {
	if scope == "" {
		scope = s.summaryScope
	}

	var participant *uint64
	switch strings.ToLower(scope) {
	case config.SummaryScopeGlobal:
	case config.SummaryScopeUser:
		if actorID == nil {
			return models.TaskSummary{}, ErrSummaryNeedsUser
		}
		participant = actorID
	default:
		return models.TaskSummary{}, apierrors.NewValidationError("scope", "must be one of global, user")
	}

	summary, err := s.tasks.TaskSummary(ctx, participant)
	if err != nil {
		return models.TaskSummary{}, fmt.Errorf("failed to summarize tasks: %w", err)
	}
	return summary, nil
}

// GenerateTasks uses AI to suggest tasks from text. Nothing is stored.
func (s *TaskService) GenerateTasks(ctx context.Context, text string) ([]GeneratedTask, error) {
	if s.ai == nil {
		return nil, ErrAIServiceNotConfigured
	}

	aiTasks, err := s.ai.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(aiTasks) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(aiTasks) > constants.MaxAIGeneratedTasks {
		aiTasks = aiTasks[:constants.MaxAIGeneratedTasks]
	}

	validTasks := make([]GeneratedTask, 0, len(aiTasks))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, aiTask := range aiTasks {
		aiTask.Title = strings.TrimSpace(aiTask.Title)
		if aiTask.Title == "" {
			continue
		}
		if aiTask.DueDate != nil && aiTask.DueDate.Before(cutoff) {
			aiTask.DueDate = nil
		}
		validTasks = append(validTasks, aiTask)
	}

	if len(validTasks) == 0 {
		return nil, ErrAINoValidTasks
	}
	return validTasks, nil
}

func (s *TaskService) ensureUserExists(ctx context.Context, field string, userID uint64) error {
	if _, err := s.users.FindUserByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierrors.NewValidationError(field, "user does not exist")
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	return nil
}

func parseFilter(raw string) (repository.TaskFilter, error) {
	filter, err := repository.ParseTaskFilter(raw)
	if err != nil {
		return "", apierrors.NewValidationError("filter", "must be one of all, active, pending, completed, starred")
	}
	return filter, nil
}

func actorOr(actorID *uint64, fallback uint64) uint64 {
	if actorID != nil {
		return *actorID
	}
	return fallback
}
