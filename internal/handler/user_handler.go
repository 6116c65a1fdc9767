package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskbot/internal/middleware"
	"taskbot/internal/model"
	"taskbot/internal/service"
)

// UserService is the surface of the user/role core the handlers call.
type UserService interface {
	GetOrCreate(ctx context.Context, id, username string) (*model.User, bool, error)
	Promote(ctx context.Context, actorID, actorName, targetID string) (*model.User, error)
	Demote(ctx context.Context, actorID, actorName, targetID string) (*model.User, error)
	BulkAdd(ctx context.Context, actorID, actorName string, members []service.Member) (int, error)
}

type UserHandler struct {
	service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// BulkAddRequest представляет запрос на массовый импорт пользователей
type BulkAddRequest struct {
	Members []service.Member `json:"members" binding:"required,dive"`
}

// Me регистрирует текущего пользователя, если он новый, и возвращает его запись
func (h *UserHandler) Me(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	user, created, err := h.service.GetOrCreate(c.Request.Context(), actorID, middleware.ActorUsername(c))
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, user)
}

// Promote повышает участника до админа
func (h *UserHandler) Promote(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	target, err := h.service.Promote(c.Request.Context(), actorID, middleware.ActorUsername(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, target)
}

// Demote понижает админа до участника
func (h *UserHandler) Demote(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	target, err := h.service.Demote(c.Request.Context(), actorID, middleware.ActorUsername(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, target)
}

// BulkAdd загружает список участников сервера в базу
func (h *UserHandler) BulkAdd(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var req BulkAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	added, err := h.service.BulkAdd(c.Request.Context(), actorID, middleware.ActorUsername(c), req.Members)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"added": added})
}
