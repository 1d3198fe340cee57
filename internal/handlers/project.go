package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskassist-api/internal/dto"
	apierrors "github.com/yukikurage/taskassist-api/internal/errors"
	"github.com/yukikurage/taskassist-api/internal/middleware"
	"github.com/yukikurage/taskassist-api/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Request.Context())
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// ListUserProjects lists the projects a user owns
func (h *ProjectHandler) ListUserProjects(c *gin.Context) {
	projects, err := h.projectService.ListUserProjects(c.Request.Context(), middleware.IDParam(c, "userId"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// ListAccessibleProjects lists a user's own projects and the public projects
// of their team members
func (h *ProjectHandler) ListAccessibleProjects(c *gin.Context) {
	projects, err := h.projectService.ListAccessibleProjects(c.Request.Context(), middleware.IDParam(c, "userId"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, err := h.projectService.GetProject(c.Request.Context(), middleware.IDParam(c, "id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := dto.Bind(c, &req); err != nil {
		apierrors.Respond(c, err)
		return
	}

	input := services.CreateProjectInput{
		Name:    req.Name,
		Color:   req.Color,
		UserID:  req.UserID,
		TeamID:  req.TeamID,
		ActorID: middleware.CurrentUserID(c),
	}
	if req.IsPublic != nil {
		input.IsPublic = *req.IsPublic
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}
