package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kalpovskii/taskmanager/internal/app/models"
	"github.com/kalpovskii/taskmanager/internal/app/services"
)

// TaskService is the part of services.TaskService the handlers call.
type TaskService interface {
	GetAllTasks(ctx context.Context) ([]models.Task, error)
	GetTaskByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	CreateTask(ctx context.Context, input models.Task) (*models.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, input models.Task) (*models.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) (bool, error)
}

var _ TaskService = (*services.TaskService)(nil)

type taskRequest struct {
	Title       string            `json:"title"`
	Description *string           `json:"description"`
	Status      models.TaskStatus `json:"status"`
}

func (r taskRequest) toTask() models.Task {
	t := models.Task{Title: r.Title, Status: r.Status}
	if r.Description != nil {
		t.Description = *r.Description
	}
	return t
}

type TaskHandler struct {
	service TaskService
}

func NewTaskHandler(service TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) Register(r gin.IRoutes) {
	r.GET("/tasks", h.list)
	r.GET("/tasks/:id", h.get)
	r.POST("/tasks", h.create)
	r.PUT("/tasks/:id", h.update)
	r.DELETE("/tasks/:id", h.delete)
}

// NewRouter returns a gin engine with the task routes and a health check.
func NewRouter(service TaskService) *gin.Engine {
	r := gin.Default()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	NewTaskHandler(service).Register(r)
	return r
}

func (h *TaskHandler) list(c *gin.Context) {
	tasks, err := h.service.GetAllTasks(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.service.GetTaskByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if task == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) create(c *gin.Context) {
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), req.toTask())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := h.service.UpdateTask(c.Request.Context(), id, req.toTask())
	if err != nil {
		respondError(c, err)
		return
	}
	if task == nil {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteTask(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !deleted {
		notFound(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ID"})
		return uuid.Nil, false
	}
	return id, true
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
}

func respondError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
