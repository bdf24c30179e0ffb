package handlers

import (
	"net/http"

	"afisha/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateUser - POST /admin/users
// Добавить пользователя
func (h *Handlers) CreateUser(c *gin.Context) {
	var req models.NewUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.services.Users.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ListUsers - GET /admin/users
// Список пользователей, опционально по идентификаторам
func (h *Handlers) ListUsers(c *gin.Context) {
	ids, ok := parseIDList(c, "ids")
	if !ok {
		return
	}
	from, size, ok := parsePagination(c)
	if !ok {
		return
	}

	users, err := h.services.Users.List(c.Request.Context(), ids, from, size)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// DeleteUser - DELETE /admin/users/:userId
// Удалить пользователя
func (h *Handlers) DeleteUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if err := h.services.Users.Delete(c.Request.Context(), userID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
