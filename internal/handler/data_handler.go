package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zenfocus/internal/middleware"
	"zenfocus/internal/model"
	"zenfocus/internal/repository"
	"zenfocus/internal/service"
)

// DataHandler exposes the settings/tasks/sessions/theme routes the client
// gateway syncs against.
type DataHandler struct {
	dataService *service.DataService
}

func NewDataHandler(dataService *service.DataService) *DataHandler {
	return &DataHandler{dataService: dataService}
}

func (h *DataHandler) GetSettings(c *gin.Context) {
	settings, apiErr := h.dataService.GetSettings(c.Request.Context(), middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *DataHandler) UpdateSettings(c *gin.Context) {
	var settings model.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		writeInvalidJSON(c)
		return
	}

	if apiErr := h.dataService.UpdateSettings(c.Request.Context(), middleware.UserID(c), settings); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Settings updated"})
}

func (h *DataHandler) ListTasks(c *gin.Context) {
	tasks, apiErr := h.dataService.ListTasks(c.Request.Context(), middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *DataHandler) CreateTask(c *gin.Context) {
	var task model.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		writeInvalidJSON(c)
		return
	}

	id, apiErr := h.dataService.CreateTask(c.Request.Context(), middleware.UserID(c), task)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task created", "id": id})
}

type taskPatchRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (h *DataHandler) UpdateTask(c *gin.Context) {
	var req taskPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	changed, apiErr := h.dataService.UpdateTask(
		c.Request.Context(),
		middleware.UserID(c),
		c.Param("id"),
		repository.TaskPatch{Title: req.Title, Completed: req.Completed},
	)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task updated", "changes": changed})
}

func (h *DataHandler) DeleteTask(c *gin.Context) {
	changed, apiErr := h.dataService.DeleteTask(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted", "changes": changed})
}

func (h *DataHandler) ListSessions(c *gin.Context) {
	sessions, apiErr := h.dataService.ListSessions(c.Request.Context(), middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *DataHandler) RecordSession(c *gin.Context) {
	var session model.Session
	if err := c.ShouldBindJSON(&session); err != nil {
		writeInvalidJSON(c)
		return
	}

	id, apiErr := h.dataService.RecordSession(c.Request.Context(), middleware.UserID(c), session)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session recorded", "id": id})
}

func (h *DataHandler) GetTheme(c *gin.Context) {
	theme, apiErr := h.dataService.GetTheme(c.Request.Context(), middleware.UserID(c))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, theme)
}

type themeRequest struct {
	Theme string `json:"theme"`
}

func (h *DataHandler) UpdateTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c)
		return
	}

	if apiErr := h.dataService.UpdateTheme(c.Request.Context(), middleware.UserID(c), req.Theme); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Theme updated"})
}
