package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zenfocus/internal/handler"
	"zenfocus/internal/middleware"
	"zenfocus/internal/service"
)

// New assembles the full API surface. Everything under /api except the
// register/login routes requires a bearer token.
func New(
	authService *service.AuthService,
	authHandler *handler.AuthHandler,
	dataHandler *handler.DataHandler,
	corsOrigins []string,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery(), middleware.CORS(corsOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.Auth(authService), authHandler.Me)

	data := api.Group("")
	data.Use(middleware.Auth(authService))
	data.GET("/settings", dataHandler.GetSettings)
	data.POST("/settings", dataHandler.UpdateSettings)
	data.GET("/tasks", dataHandler.ListTasks)
	data.POST("/tasks", dataHandler.CreateTask)
	data.PATCH("/tasks/:id", dataHandler.UpdateTask)
	data.DELETE("/tasks/:id", dataHandler.DeleteTask)
	data.GET("/sessions", dataHandler.ListSessions)
	data.POST("/sessions", dataHandler.RecordSession)
	data.GET("/theme", dataHandler.GetTheme)
	data.POST("/theme", dataHandler.UpdateTheme)

	return engine
}
