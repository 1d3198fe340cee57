package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/taskassist-api/internal/models"
)

// RegisterRequest is the insert shape for users.
type RegisterRequest struct {
	Username  string  `json:"username" binding:"required,notblank,min=3,max=50"`
	Password  string  `json:"password" binding:"required,min=6,maxbytes=72"`
	Email     *string `json:"email" binding:"omitempty,email"`
	FirstName *string `json:"firstName" binding:"omitempty,max=100"`
	LastName  *string `json:"lastName" binding:"omitempty,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateTaskRequest is the insert shape for tasks. UserID may be omitted on
// authenticated requests; the caller becomes the owner.
type CreateTaskRequest struct {
	Title       string               `json:"title" binding:"required,notblank,max=255"`
	Description *string              `json:"description"`
	Completed   *bool                `json:"completed"`
	ProjectID   *uint64              `json:"projectId"`
	DueDate     *Date                `json:"dueDate"`
	Priority    *models.TaskPriority `json:"priority" binding:"omitnil,priority"`
	Starred     *bool                `json:"starred"`
	AssignedTo  *uint64              `json:"assignedTo"`
	UserID      *uint64              `json:"userId"`
	TeamID      *uint64              `json:"teamId"`
}

// UpdateTaskRequest is the patch shape for tasks. Every field is optional;
// nullable fields are cleared with an explicit null. The assigner is never
// taken from the body.
type UpdateTaskRequest struct {
	Title       *string                       `json:"title" binding:"omitnil,notblank,max=255"`
	Description Nullable[string]              `json:"description"`
	Completed   *bool                         `json:"completed"`
	ProjectID   Nullable[uint64]              `json:"projectId"`
	DueDate     Nullable[Date]                `json:"dueDate"`
	Priority    Nullable[models.TaskPriority] `json:"priority"`
	Starred     *bool                         `json:"starred"`
	AssignedTo  Nullable[uint64]              `json:"assignedTo"`
	TeamID      Nullable[uint64]              `json:"teamId"`
}

func validateUpdateTask(sl validator.StructLevel) {
	req := sl.Current().Interface().(UpdateTaskRequest)
	if p, _ := req.Priority.Split(); p != nil && !p.IsValid() {
		sl.ReportError(req.Priority, "priority", "Priority", "priority", "")
	}
}

type AssignTaskRequest struct {
	AssignedTo uint64 `json:"assignedTo" binding:"required"`
}

type GenerateTasksRequest struct {
	Text string `json:"text" binding:"required,notblank,max=10000"`
}

// CreateProjectRequest is the insert shape for projects.
type CreateProjectRequest struct {
	Name     string  `json:"name" binding:"required,notblank,max=255"`
	Color    string  `json:"color" binding:"required,notblank,max=32"`
	UserID   *uint64 `json:"userId"`
	TeamID   *uint64 `json:"teamId"`
	IsPublic *bool   `json:"isPublic"`
}

type AddTeamMemberRequest struct {
	UserID1 uint64 `json:"userId1" binding:"required"`
	UserID2 uint64 `json:"userId2" binding:"required,nefield=UserID1"`
}
