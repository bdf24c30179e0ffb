package handlers

import (
	"net/http"

	"afisha/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateCategory - POST /admin/categories
// Добавить категорию
func (h *Handlers) CreateCategory(c *gin.Context) {
	var req models.NewCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	category, err := h.services.Categories.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory - PATCH /admin/categories/:catId
// Переименовать категорию
func (h *Handlers) UpdateCategory(c *gin.Context) {
	catID, ok := pathID(c, "catId")
	if !ok {
		return
	}

	var req models.NewCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	category, err := h.services.Categories.Update(c.Request.Context(), catID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory - DELETE /admin/categories/:catId
// Удалить категорию, если на нее не ссылаются события
func (h *Handlers) DeleteCategory(c *gin.Context) {
	catID, ok := pathID(c, "catId")
	if !ok {
		return
	}

	if err := h.services.Categories.Delete(c.Request.Context(), catID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCategories - GET /categories
// Публичный список категорий
func (h *Handlers) ListCategories(c *gin.Context) {
	from, size, ok := parsePagination(c)
	if !ok {
		return
	}

	categories, err := h.services.Categories.List(c.Request.Context(), from, size)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetCategory - GET /categories/:catId
// Публичная карточка категории
func (h *Handlers) GetCategory(c *gin.Context) {
	catID, ok := pathID(c, "catId")
	if !ok {
		return
	}

	category, err := h.services.Categories.GetByID(c.Request.Context(), catID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}
