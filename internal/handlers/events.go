package handlers

import (
	"net/http"

	"afisha/internal/errors"
	"afisha/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateEvent - POST /users/:userId/events
// Создать событие (всегда в статусе PENDING)
func (h *Handlers) CreateEvent(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var req models.NewEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	event, err := h.services.Events.Create(c.Request.Context(), userID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// UpdateEventByUser - PATCH /users/:userId/events/:eventId
// Частичное обновление события инициатором
func (h *Handlers) UpdateEventByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	var req models.UpdateEventUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	event, err := h.services.Events.UpdateByPrivate(c.Request.Context(), userID, eventID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// UpdateEventByAdmin - PATCH /admin/events/:eventId
// Обновление и смена статуса события администратором
func (h *Handlers) UpdateEventByAdmin(c *gin.Context) {
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	var req models.UpdateEventAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	event, err := h.services.Events.UpdateByAdmin(c.Request.Context(), eventID, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// GetEventsByUser - GET /users/:userId/events
// События, добавленные текущим пользователем
func (h *Handlers) GetEventsByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	from, size, ok := parsePagination(c)
	if !ok {
		return
	}

	events, err := h.services.Events.FindAllByPrivate(c.Request.Context(), userID, from, size)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEventOfUser - GET /users/:userId/events/:eventId
// Полная информация о своем событии
func (h *Handlers) GetEventOfUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	event, err := h.services.Events.GetEventOfUser(c.Request.Context(), userID, eventID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// SearchEventsPublic - GET /events
// Публичный поиск опубликованных событий
func (h *Handlers) SearchEventsPublic(c *gin.Context) {
	filter, ok := h.parsePublicFilter(c)
	if !ok {
		return
	}

	events, err := h.services.Events.FindAllByPublic(c.Request.Context(), filter, hitContext(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEventPublic - GET /events/:eventId
// Публичная карточка события, только PUBLISHED
func (h *Handlers) GetEventPublic(c *gin.Context) {
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	event, err := h.services.Events.FindEventByID(c.Request.Context(), eventID, hitContext(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// SearchEventsAdmin - GET /admin/events
// Поиск событий администратором, без фильтра по статусу по умолчанию
func (h *Handlers) SearchEventsAdmin(c *gin.Context) {
	filter, ok := h.parseAdminFilter(c)
	if !ok {
		return
	}

	events, err := h.services.Events.FindAllByAdmin(c.Request.Context(), filter, hitContext(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *Handlers) parsePublicFilter(c *gin.Context) (models.PublicEventFilter, bool) {
	var filter models.PublicEventFilter

	filter.Text = c.Query("text")

	categories, ok := parseIDList(c, "categories")
	if !ok {
		return filter, false
	}
	filter.Categories = categories

	if raw := c.Query("paid"); raw != "" {
		if raw != "true" && raw != "false" {
			writeError(c, errors.Validation("paid must be true or false, got %s", raw))
			return filter, false
		}
		paid := raw == "true"
		filter.Paid = &paid
	}

	rangeStart, ok := parseDateTimeQuery(c, "rangeStart")
	if !ok {
		return filter, false
	}
	rangeEnd, ok := parseDateTimeQuery(c, "rangeEnd")
	if !ok {
		return filter, false
	}
	filter.RangeStart, filter.RangeEnd = rangeStart, rangeEnd

	filter.OnlyAvailable = c.Query("onlyAvailable") == "true"

	switch sort := c.Query("sort"); sort {
	case "", string(models.SortByEventDate):
		filter.Sort = models.SortByEventDate
	case string(models.SortByViews):
		filter.Sort = models.SortByViews
	default:
		writeError(c, errors.Validation("unknown sort: %s", sort))
		return filter, false
	}

	from, size, ok := parsePagination(c)
	if !ok {
		return filter, false
	}
	filter.From, filter.Size = from, size

	return filter, true
}

func (h *Handlers) parseAdminFilter(c *gin.Context) (models.AdminEventFilter, bool) {
	var filter models.AdminEventFilter

	users, ok := parseIDList(c, "users")
	if !ok {
		return filter, false
	}
	filter.Users = users

	for _, raw := range c.QueryArray("states") {
		state, err := models.ParseEventState(raw)
		if err != nil {
			writeError(c, err)
			return filter, false
		}
		filter.States = append(filter.States, state)
	}

	categories, ok := parseIDList(c, "categories")
	if !ok {
		return filter, false
	}
	filter.Categories = categories

	rangeStart, ok := parseDateTimeQuery(c, "rangeStart")
	if !ok {
		return filter, false
	}
	rangeEnd, ok := parseDateTimeQuery(c, "rangeEnd")
	if !ok {
		return filter, false
	}
	filter.RangeStart, filter.RangeEnd = rangeStart, rangeEnd

	from, size, ok := parsePagination(c)
	if !ok {
		return filter, false
	}
	filter.From, filter.Size = from, size

	return filter, true
}
