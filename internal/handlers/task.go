package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskassist-api/internal/dto"
	apierrors "github.com/yukikurage/taskassist-api/internal/errors"
	"github.com/yukikurage/taskassist-api/internal/middleware"
	"github.com/yukikurage/taskassist-api/internal/services"
	"github.com/yukikurage/taskassist-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns all tasks, optionally filtered and paginated
func (h *TaskHandler) ListTasks(c *gin.Context) {
	input := services.ListTasksInput{Filter: c.Query("filter")}
	if params, ok := utils.GetPaginationParams(c); ok {
		input.Offset = params.Offset
		input.Limit = params.Limit
	}

	tasks, total, err := h.taskService.ListTasks(c.Request.Context(), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	utils.SetTotalCount(c, total)
	c.JSON(http.StatusOK, tasks)
}

// ListUserTasks returns the tasks a user is involved in, each annotated
// with its relation to that user
func (h *TaskHandler) ListUserTasks(c *gin.Context) {
	userID := middleware.IDParam(c, "userId")

	tasks, err := h.taskService.ListUserTasks(c.Request.Context(), userID, c.Query("filter"), c.Query("category"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks, &userID))
}

func (h *TaskHandler) ListAssignedTo(c *gin.Context) {
	tasks, err := h.taskService.ListAssignedTo(c.Request.Context(), middleware.IDParam(c, "userId"), c.Query("filter"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) ListAssignedBy(c *gin.Context) {
	tasks, err := h.taskService.ListAssignedBy(c.Request.Context(), middleware.IDParam(c, "userId"), c.Query("filter"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GetTask returns a single task
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Request.Context(), middleware.IDParam(c, "id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := dto.Bind(c, &req); err != nil {
		apierrors.Respond(c, err)
		return
	}

	input := services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   req.ProjectID,
		DueDate:     req.DueDate.Ptr(),
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		UserID:      req.UserID,
		TeamID:      req.TeamID,
		ActorID:     middleware.CurrentUserID(c),
	}
	if req.Completed != nil {
		input.Completed = *req.Completed
	}
	if req.Starred != nil {
		input.Starred = *req.Starred
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTask applies a partial update
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := dto.Bind(c, &req); err != nil {
		apierrors.Respond(c, err)
		return
	}

	input := services.UpdateTaskInput{
		Title:     req.Title,
		Completed: req.Completed,
		Starred:   req.Starred,
		ActorID:   middleware.CurrentUserID(c),
	}
	input.Description, input.ClearDescription = req.Description.Split()
	input.ProjectID, input.ClearProjectID = req.ProjectID.Split()
	input.Priority, input.ClearPriority = req.Priority.Split()
	input.AssignedTo, input.ClearAssignedTo = req.AssignedTo.Split()
	input.TeamID, input.ClearTeamID = req.TeamID.Split()
	due, clearDue := req.DueDate.Split()
	input.DueDate, input.ClearDueDate = due.Ptr(), clearDue

	task, err := h.taskService.UpdateTask(c.Request.Context(), middleware.IDParam(c, "id"), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.DeleteTask(c.Request.Context(), middleware.IDParam(c, "id")); err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSummary returns total, completed and pending counts
func (h *TaskHandler) GetSummary(c *gin.Context) {
	summary, err := h.taskService.Summary(c.Request.Context(), c.Query("scope"), middleware.CurrentUserID(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// AssignTask delegates a task to another user
func (h *TaskHandler) AssignTask(c *gin.Context) {
	var req dto.AssignTaskRequest
	if err := dto.Bind(c, &req); err != nil {
		apierrors.Respond(c, err)
		return
	}

	task, err := h.taskService.AssignTask(c.Request.Context(), middleware.IDParam(c, "id"), req.AssignedTo, middleware.CurrentUserID(c))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UnassignTask clears a task's delegation
func (h *TaskHandler) UnassignTask(c *gin.Context) {
	task, err := h.taskService.UnassignTask(c.Request.Context(), middleware.IDParam(c, "id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ToggleTask flips a task between pending and completed
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	task, err := h.taskService.ToggleTask(c.Request.Context(), middleware.IDParam(c, "id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// GenerateTasks suggests tasks from free text. Suggestions are not saved.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	var req dto.GenerateTasksRequest
	if err := dto.Bind(c, &req); err != nil {
		apierrors.Respond(c, err)
		return
	}

	tasks, err := h.taskService.GenerateTasks(c.Request.Context(), req.Text)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}
