package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/taskassist-api/internal/models"
)

var (
	// ErrNotFound is returned by single-record lookups and updates when the
	// record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique username, email or relation
	// already exists.
	ErrDuplicate = errors.New("record already exists")
	// ErrInvalidCredentials is returned by VerifyUser on an unknown username
	// or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// TaskFilter selects tasks by completion state.
type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterActive    TaskFilter = "active"
	FilterCompleted TaskFilter = "completed"
	FilterStarred   TaskFilter = "starred"
)

// ParseTaskFilter maps a query value to a TaskFilter. An empty value means
// all tasks; "pending" is accepted as an alias for "active".
func ParseTaskFilter(s string) (TaskFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active", "pending":
		return FilterActive, nil
	case "completed":
		return FilterCompleted, nil
	case "starred":
		return FilterStarred, nil
	default:
		return "", fmt.Errorf("unknown task filter %q", s)
	}
}

// TaskQuery holds filtering options for listing tasks. All set conditions
// must hold. Limit 0 returns every matching task.
type TaskQuery struct {
	Filter TaskFilter
	// Participant matches tasks the user created, is assigned to, or assigned.
	Participant *uint64
	AssignedTo  *uint64
	AssignedBy  *uint64
	Offset      int
	Limit       int
}

// Matches reports whether task satisfies the query conditions, ignoring
// pagination.
func (q TaskQuery) Matches(task models.Task) bool {
	switch q.Filter {
	case FilterActive:
		if task.Completed {
			return false
		}
	case FilterCompleted:
		if !task.Completed {
			return false
		}
	case FilterStarred:
		if !task.Starred {
			return false
		}
	}
	if q.Participant != nil && !task.InvolvesUser(*q.Participant) {
		return false
	}
	if q.AssignedTo != nil && (task.AssignedTo == nil || *task.AssignedTo != *q.AssignedTo) {
		return false
	}
	if q.AssignedBy != nil && (task.AssignedBy == nil || *task.AssignedBy != *q.AssignedBy) {
		return false
	}
	return true
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// FindUserByID finds a user by ID
	FindUserByID(ctx context.Context, id uint64) (*models.User, error)

	// FindUserByUsername finds a user by username
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)

	// CreateUser stores a new user. user.Password holds the plain password
	// on input and the bcrypt hash on return.
	CreateUser(ctx context.Context, user *models.User) error

	// SearchUsers returns up to limit users whose username, email, first or
	// last name contains query, case-insensitively. Passwords are cleared.
	SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error)

	// VerifyUser checks credentials and records the login time.
	VerifyUser(ctx context.Context, username, password string) (*models.User, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// ListTasks returns matching tasks newest first, and the match count
	// before pagination.
	ListTasks(ctx context.Context, query TaskQuery) ([]models.Task, int64, error)

	// FindTaskByID finds a task by ID
	FindTaskByID(ctx context.Context, id uint64) (*models.Task, error)

	// CreateTask creates a new task
	CreateTask(ctx context.Context, task *models.Task) error

	// UpdateTask loads the task, applies mutate to it and stores the result
	// with a fresh UpdatedAt. Returns ErrNotFound for an unknown ID.
	UpdateTask(ctx context.Context, id uint64, mutate func(*models.Task) error) (*models.Task, error)

	// DeleteTask reports whether a task was removed.
	DeleteTask(ctx context.Context, id uint64) (bool, error)

	// TaskSummary counts tasks, across all tasks when participant is nil or
	// across the tasks participant is involved in otherwise.
	TaskSummary(ctx context.Context, participant *uint64) (models.TaskSummary, error)
}

// ProjectQuery narrows a project listing. An empty query lists every project.
type ProjectQuery struct {
	Owner *uint64
	// AccessibleTo matches the user's own projects plus public projects
	// owned by one of the user's team members.
	AccessibleTo *uint64
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// ListProjects returns matching projects ordered by ID.
	ListProjects(ctx context.Context, q ProjectQuery) ([]models.Project, error)
	FindProjectByID(ctx context.Context, id uint64) (*models.Project, error)
	CreateProject(ctx context.Context, project *models.Project) error
}

// TeamRepository defines the interface for contact relations
type TeamRepository interface {
	// AddTeamMember connects two users in both directions atomically and
	// returns the connection from userID1 together with userID2's profile.
	// Returns ErrNotFound if either user is missing and ErrDuplicate if they
	// are already connected in either direction.
	AddTeamMember(ctx context.Context, userID1, userID2 uint64) (*models.TeamMemberView, error)

	// ListTeamMembers returns every contact connected from userID.
	ListTeamMembers(ctx context.Context, userID uint64) ([]models.TeamMemberView, error)
}

// Store is the full persistence capability set. GormStore and MemoryStore
// implement it with identical observable behavior.
type Store interface {
	UserRepository
	TaskRepository
	ProjectRepository
	TeamRepository
}
