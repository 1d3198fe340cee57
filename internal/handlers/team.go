package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskassist-api/internal/dto"
	apierrors "github.com/yukikurage/taskassist-api/internal/errors"
	"github.com/yukikurage/taskassist-api/internal/middleware"
	"github.com/yukikurage/taskassist-api/internal/services"
)

// TeamHandler serves the symmetric contact list
type TeamHandler struct {
	teamService *services.TeamService
}

func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// AddTeamMember connects two users in both directions
func (h *TeamHandler) AddTeamMember(c *gin.Context) {
	var req dto.AddTeamMemberRequest
	if err := dto.Bind(c, &req); err != nil {
		apierrors.Respond(c, err)
		return
	}

	view, err := h.teamService.AddTeamMember(c.Request.Context(), req.UserID1, req.UserID2)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTeamMemberDTO(*view))
}

// ListTeamMembers lists the contacts of a user
func (h *TeamHandler) ListTeamMembers(c *gin.Context) {
	views, err := h.teamService.ListTeamMembers(c.Request.Context(), middleware.IDParam(c, "userId"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTeamMemberDTOs(views))
}
