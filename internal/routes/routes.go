package routes

import (
	"kanban-board/backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// Dependencies carries the wired handlers and route-level middleware.
type Dependencies struct {
	Auth     *handlers.AuthHandler
	Boards   *handlers.BoardHandler
	Tasks    *handlers.TaskHandler
	Comments *handlers.CommentHandler

	AuthMiddleware gin.HandlerFunc
	HealthHandler  gin.HandlerFunc
	MetricsHandler gin.HandlerFunc
}

// SetupRoutes registers all API endpoints on the router.
func SetupRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health", deps.HealthHandler)
	router.GET("/metrics", deps.MetricsHandler)

	api := router.Group("/api")

	api.POST("/registration", deps.Auth.Registration)
	api.POST("/login", deps.Auth.Login)

	protected := api.Group("", deps.AuthMiddleware)

	protected.GET("/email-check", deps.Auth.EmailCheck)
	protected.DELETE("/account", deps.Auth.DeleteAccount)

	boards := protected.Group("/boards")
	boards.GET("", deps.Boards.ListBoards)
	boards.POST("", deps.Boards.CreateBoard)
	boards.GET("/:board_id", deps.Boards.GetBoard)
	boards.PATCH("/:board_id", deps.Boards.UpdateBoard)
	boards.DELETE("/:board_id", deps.Boards.DeleteBoard)

	tasks := protected.Group("/tasks")
	tasks.POST("", deps.Tasks.CreateTask)
	tasks.GET("/assigned-to-me", deps.Tasks.AssignedToMe)
	tasks.GET("/reviewing", deps.Tasks.Reviewing)
	tasks.PATCH("/:task_id", deps.Tasks.UpdateTask)
	tasks.DELETE("/:task_id", deps.Tasks.DeleteTask)
	tasks.GET("/:task_id/comments", deps.Comments.ListComments)
	tasks.POST("/:task_id/comments", deps.Comments.CreateComment)
	tasks.DELETE("/:task_id/comments/:comment_id", deps.Comments.DeleteComment)
}
