package handlers

import (
	"net/http"
	"strconv"

	"afisha/internal/errors"
	"afisha/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateRequest - POST /users/:userId/requests?eventId=
// Подать заявку на участие в событии
func (h *Handlers) CreateRequest(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	eventID, err := strconv.ParseInt(c.Query("eventId"), 10, 64)
	if err != nil || eventID <= 0 {
		writeError(c, errors.Validation("eventId query parameter is required"))
		return
	}

	request, err := h.services.Requests.Create(c.Request.Context(), userID, eventID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// GetUserRequests - GET /users/:userId/requests
// Заявки пользователя на участие в чужих событиях
func (h *Handlers) GetUserRequests(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	requests, err := h.services.Requests.GetRequestsByUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// CancelRequest - PATCH /users/:userId/requests/:requestId/cancel
// Отменить свою заявку
func (h *Handlers) CancelRequest(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	requestID, ok := pathID(c, "requestId")
	if !ok {
		return
	}

	request, err := h.services.Requests.Cancel(c.Request.Context(), userID, requestID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}

// GetEventRequests - GET /users/:userId/events/:eventId/requests
// Заявки на участие в событии текущего пользователя
func (h *Handlers) GetEventRequests(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	requests, err := h.services.Requests.GetRequestsForEventOwner(c.Request.Context(), userID, eventID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// UpdateRequestsStatus - PATCH /users/:userId/events/:eventId/requests
// Подтвердить или отклонить заявки пачкой
func (h *Handlers) UpdateRequestsStatus(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	var update models.RequestStatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.services.Requests.UpdateStatus(c.Request.Context(), userID, eventID, &update)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
