package handlers

import (
	"net/http"

	"afisha/internal/models"

	"github.com/gin-gonic/gin"
)

// Subscribe - POST /users/:userId/subscriptions
// Подписаться на события инициатора
func (h *Handlers) Subscribe(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var req models.NewSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	subscription, err := h.services.Subscriptions.Subscribe(c.Request.Context(), userID, req.OwnerID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subscription)
}

// Unsubscribe - DELETE /users/:userId/subscriptions/:ownerId
// Отписаться от инициатора
func (h *Handlers) Unsubscribe(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	ownerID, ok := pathID(c, "ownerId")
	if !ok {
		return
	}

	if err := h.services.Subscriptions.Unsubscribe(c.Request.Context(), userID, ownerID); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListSubscriptions - GET /users/:userId/subscriptions
// Список подписок пользователя
func (h *Handlers) ListSubscriptions(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	subscriptions, err := h.services.Subscriptions.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscriptions)
}

// ListSubscribers - GET /users/:userId/subscriptions/subscribers
// Кто подписан на пользователя
func (h *Handlers) ListSubscribers(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	subscribers, err := h.services.Subscriptions.Subscribers(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, subscribers)
}

// CountSubscribers - GET /users/:userId/subscriptions/subscribers/count
func (h *Handlers) CountSubscribers(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	count, err := h.services.Subscriptions.SubscriberCount(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// SubscriptionFeed - GET /users/:userId/subscriptions/feed
// Лента опубликованных событий от инициаторов из подписок
func (h *Handlers) SubscriptionFeed(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	from, size, ok := parsePagination(c)
	if !ok {
		return
	}

	events, err := h.services.Subscriptions.Feed(c.Request.Context(), userID, from, size)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}
