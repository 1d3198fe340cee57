package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskassist-api/internal/dto"
	apierrors "github.com/yukikurage/taskassist-api/internal/errors"
	"github.com/yukikurage/taskassist-api/internal/middleware"
	"github.com/yukikurage/taskassist-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a user and returns it with a bearer token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := dto.Bind(c, &req); err != nil {
		apierrors.Respond(c, err)
		return
	}

	user, signed, err := h.authService.Register(c.Request.Context(), services.SignupInput{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.AuthResponse{User: dto.ToUserDTO(*user), Token: signed})
}

// Login authenticates a user and returns a fresh token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := dto.Bind(c, &req); err != nil {
		apierrors.Respond(c, err)
		return
	}

	user, signed, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{User: dto.ToUserDTO(*user), Token: signed})
}

// GetCurrentUser returns the authenticated user's profile.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
