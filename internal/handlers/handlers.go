package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"afisha/internal/errors"
	"afisha/internal/models"
	"afisha/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// apiError - тело ответа об ошибке
type apiError struct {
	Status    string `json:"status"`
	Reason    string `json:"reason"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// writeError переводит тип ошибки в HTTP-статус и структурированное тело
func writeError(c *gin.Context, err error) {
	var status int
	var name, reason string

	switch errors.KindOf(err) {
	case errors.KindNotFound:
		status, name = http.StatusNotFound, "NOT_FOUND"
		reason = "The required object was not found."
	case errors.KindValidation:
		status, name = http.StatusBadRequest, "BAD_REQUEST"
		reason = "Incorrectly made request."
	case errors.KindConflict:
		status, name = http.StatusConflict, "CONFLICT"
		reason = "For the requested operation the conditions are not met."
	case errors.KindForbidden:
		status, name = http.StatusForbidden, "FORBIDDEN"
		reason = "For the requested operation the conditions are not met."
	case errors.KindDuplicated:
		status, name = http.StatusConflict, "CONFLICT"
		reason = "Integrity constraint has been violated."
	default:
		slog.Error("internal error", "error", err)
		status, name = http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"
		reason = "Internal server error."
	}

	c.JSON(status, apiError{
		Status:    name,
		Reason:    reason,
		Message:   err.Error(),
		Timestamp: models.FormatDateTime(time.Now()),
	})
}

func badRequest(c *gin.Context, err error) {
	writeError(c, errors.Validation("%s", err.Error()))
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, errors.Validation("invalid path parameter %s", name))
		return 0, false
	}
	return id, true
}

// parsePagination читает from/size с дефолтами 0/10
func parsePagination(c *gin.Context) (int, int, bool) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil || from < 0 {
		writeError(c, errors.Validation("from must be a non-negative integer"))
		return 0, 0, false
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size <= 0 {
		writeError(c, errors.Validation("size must be a positive integer"))
		return 0, 0, false
	}

	return from, size, true
}

// parseIDList разбирает список идентификаторов из query-параметра
func parseIDList(c *gin.Context, name string) ([]int64, bool) {
	var ids []int64
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				writeError(c, errors.Validation("invalid %s value: %s", name, part))
				return nil, false
			}
			ids = append(ids, id)
		}
	}
	return ids, true
}

// parseDateTimeQuery разбирает временную границу формата yyyy-MM-dd HH:mm:ss
func parseDateTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	t, err := models.ParseDateTime(raw)
	if err != nil {
		writeError(c, errors.Validation("invalid %s: %s", name, raw))
		return nil, false
	}
	return &t, true
}

func hitContext(c *gin.Context) models.HitContext {
	return models.HitContext{
		URI: c.Request.URL.Path,
		IP:  c.ClientIP(),
	}
}
