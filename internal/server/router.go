package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/taskassist-api/internal/config"
	"github.com/yukikurage/taskassist-api/internal/handlers"
	"github.com/yukikurage/taskassist-api/internal/middleware"
	"github.com/yukikurage/taskassist-api/internal/repository"
	"github.com/yukikurage/taskassist-api/internal/services"
	"github.com/yukikurage/taskassist-api/internal/token"
)

// NewRouter wires services and handlers over store and registers every
// route. ai may be nil when task generation is not configured.
func NewRouter(cfg *config.Config, store repository.Store, ai services.TaskGenerator) *gin.Engine {
	tokens := token.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)

	authService := services.NewAuthService(store, tokens)
	taskService := services.NewTaskService(store, store, ai, cfg.SummaryScope)
	projectService := services.NewProjectService(store)
	userService := services.NewUserService(store)
	teamService := services.NewTeamService(store)

	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	projectHandler := handlers.NewProjectHandler(projectService)
	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService)

	requireAuth := middleware.RequireAuth(authService)
	optionalAuth := middleware.OptionalAuth(authService)
	taskID := middleware.RequireIDParam("id", "task")
	userID := middleware.RequireIDParam("userId", "user")

	r := gin.Default()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task API is running",
		})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// outside the tasks group, which would verify the token a second time
		api.POST("/tasks/generate", requireAuth, taskHandler.GenerateTasks)

		tasks := api.Group("/tasks")
		tasks.Use(optionalAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/summary", taskHandler.GetSummary)
			tasks.GET("/user/:userId", userID, taskHandler.ListUserTasks)
			tasks.GET("/assigned/:userId", userID, taskHandler.ListAssignedTo)
			tasks.GET("/assigned-by/:userId", userID, taskHandler.ListAssignedBy)
			tasks.GET("/:id", taskID, taskHandler.GetTask)
			tasks.PATCH("/:id", taskID, taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskID, taskHandler.DeleteTask)
			tasks.POST("/:id/assign", taskID, taskHandler.AssignTask)
			tasks.POST("/:id/unassign", taskID, taskHandler.UnassignTask)
			tasks.POST("/:id/toggle", taskID, taskHandler.ToggleTask)
		}

		projects := api.Group("/projects")
		projects.Use(optionalAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/user/:userId", userID, projectHandler.ListUserProjects)
			projects.GET("/accessible/:userId", userID, projectHandler.ListAccessibleProjects)
			projects.GET("/:id", middleware.RequireIDParam("id", "project"), projectHandler.GetProject)
		}

		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("/search", userHandler.SearchUsers)
			users.GET("/:id", middleware.RequireIDParam("id", "user"), userHandler.GetUser)
		}

		team := api.Group("/team-members")
		team.Use(requireAuth)
		{
			team.POST("", teamHandler.AddTeamMember)
			team.GET("/:userId", userID, teamHandler.ListTeamMembers)
		}
	}

	return r
}
