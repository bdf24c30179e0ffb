package handlers

import (
	"net/http"

	"afisha/internal/errors"
	"afisha/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateCompilation - POST /admin/compilations
// Добавить подборку событий
func (h *Handlers) CreateCompilation(c *gin.Context) {
	var req models.NewCompilationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	compilation, err := h.services.Compilations.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, compilation)
}

// UpdateCompilation - PATCH /admin/compilations/:compId
// Частичное обновление подборки
func (h *Handlers) UpdateCompilation(c *gin.Context) {
	compID, ok := pathID(c, "compId")
	if !ok {
		return
	}

	var req models.UpdateCompilationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	compilation, err := h.services.Compilations.Update(c.Request.Context(), compID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, compilation)
}

// DeleteCompilation - DELETE /admin/compilations/:compId
// Удалить подборку
func (h *Handlers) DeleteCompilation(c *gin.Context) {
	compID, ok := pathID(c, "compId")
	if !ok {
		return
	}

	if err := h.services.Compilations.Delete(c.Request.Context(), compID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListCompilations - GET /compilations?pinned=
// Публичный список подборок
func (h *Handlers) ListCompilations(c *gin.Context) {
	var pinned *bool
	if raw := c.Query("pinned"); raw != "" {
		if raw != "true" && raw != "false" {
			writeError(c, errors.Validation("pinned must be true or false, got %s", raw))
			return
		}
		value := raw == "true"
		pinned = &value
	}

	from, size, ok := parsePagination(c)
	if !ok {
		return
	}

	compilations, err := h.services.Compilations.List(c.Request.Context(), pinned, from, size)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, compilations)
}

// GetCompilation - GET /compilations/:compId
// Публичная карточка подборки
func (h *Handlers) GetCompilation(c *gin.Context) {
	compID, ok := pathID(c, "compId")
	if !ok {
		return
	}

	compilation, err := h.services.Compilations.GetByID(c.Request.Context(), compID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, compilation)
}
