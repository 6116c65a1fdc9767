package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskbot/internal/middleware"
	"taskbot/internal/model"
	"taskbot/internal/repository"
	"taskbot/internal/service"
)

// TaskService is the surface of the task core the handlers call.
type TaskService interface {
	Create(ctx context.Context, creatorID, creatorName, description, assigneeID, assigneeName string) (*model.Task, error)
	Get(ctx context.Context, taskID int64) (*model.Task, error)
	ListForUser(ctx context.Context, userID string) ([]model.Task, error)
	UpdateDescription(ctx context.Context, actorID string, taskID int64, description string) (*model.Task, error)
	Reassign(ctx context.Context, actorID string, taskID int64, newAssigneeID, newAssigneeName string) (*model.Task, error)
	SetStatus(ctx context.Context, actorID string, taskID int64, status model.Status) (*model.Task, error)
	Complete(ctx context.Context, actorID string, taskID int64) (*model.Task, error)
	Reopen(ctx context.Context, actorID string, taskID int64) (*model.Task, error)
	SetDueDate(ctx context.Context, actorID string, taskID int64, dueDate *time.Time) (*model.Task, error)
	Delete(ctx context.Context, actorID string, taskID int64) error
	GetOverview(ctx context.Context, userID string) (*service.Overview, error)
	GetReminders(ctx context.Context, userID string) (*service.Reminders, error)
}

type TaskHandler struct {
	service TaskService
}

func NewTaskHandler(service TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// TaskCreateRequest представляет запрос на создание задачи
type TaskCreateRequest struct {
	Description      string `json:"description" binding:"required"`
	AssigneeID       string `json:"assignee_id"`
	AssigneeUsername string `json:"assignee_username"`
}

// TaskUpdateRequest представляет запрос на обновление описания
type TaskUpdateRequest struct {
	Description string `json:"description" binding:"required"`
}

// TaskAssignRequest представляет запрос на переназначение задачи
type TaskAssignRequest struct {
	AssigneeID       string `json:"assignee_id" binding:"required"`
	AssigneeUsername string `json:"assignee_username" binding:"required"`
}

// TaskStatusRequest представляет запрос на смену статуса
type TaskStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// TaskDueDateRequest представляет запрос на установку срока; null очищает его
type TaskDueDateRequest struct {
	DueDate *string `json:"due_date"`
}

// Create создает новую задачу
func (h *TaskHandler) Create(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req TaskCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.service.Create(
		c.Request.Context(),
		actorID,
		middleware.ActorUsername(c),
		req.Description,
		req.AssigneeID,
		req.AssigneeUsername,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// List возвращает задачи, назначенные на текущего пользователя
func (h *TaskHandler) List(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	tasks, err := h.service.ListForUser(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GetByID возвращает одну задачу
func (h *TaskHandler) GetByID(c *gin.Context) {
	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.service.Get(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Update обновляет описание задачи
func (h *TaskHandler) Update(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req TaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.service.UpdateDescription(c.Request.Context(), actorID, taskID, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Assign переназначает задачу другому пользователю
func (h *TaskHandler) Assign(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req TaskAssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.service.Reassign(c.Request.Context(), actorID, taskID, req.AssigneeID, req.AssigneeUsername)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// SetStatus меняет статус задачи
func (h *TaskHandler) SetStatus(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req TaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.service.SetStatus(c.Request.Context(), actorID, taskID, model.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Complete помечает задачу выполненной
func (h *TaskHandler) Complete(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.service.Complete(c.Request.Context(), actorID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Reopen возвращает выполненную задачу в работу
func (h *TaskHandler) Reopen(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.service.Reopen(c.Request.Context(), actorID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// SetDueDate устанавливает или очищает срок задачи
func (h *TaskHandler) SetDueDate(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req TaskDueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Please use YYYY-MM-DD."})
			return
		}
		dueDate = &parsed
	}

	task, err := h.service.SetDueDate(c.Request.Context(), actorID, taskID, dueDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// Delete удаляет задачу
func (h *TaskHandler) Delete(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), actorID, taskID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

// Overview возвращает задачи, сгруппированные по статусу
func (h *TaskHandler) Overview(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	overview, err := h.service.GetOverview(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// Reminders возвращает просроченные и предстоящие задачи пользователя
func (h *TaskHandler) Reminders(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	reminders, err := h.service.GetReminders(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reminders)
}

// HealthCheck сообщает, что сервис жив
func (h *TaskHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseTaskID(c *gin.Context) (int64, bool) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return 0, false
	}
	return taskID, true
}

// respondError переводит ошибки сервиса в HTTP статусы
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSameAssignee),
		errors.Is(err, service.ErrAlreadyCompleted),
		errors.Is(err, service.ErrNotCompleted),
		errors.Is(err, service.ErrAlreadyAdmin),
		errors.Is(err, service.ErrNotAdmin):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
