package stats

import (
	"net/http"
	"time"

	"afisha/internal/errors"
	"afisha/internal/models"

	"github.com/gin-gonic/gin"
)

// hitRequest - тело запроса на регистрацию просмотра
type hitRequest struct {
	App       string          `json:"app" binding:"required"`
	URI       string          `json:"uri" binding:"required"`
	IP        string          `json:"ip" binding:"required"`
	Timestamp models.DateTime `json:"timestamp" binding:"required"`
}

type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RecordHit - POST /hit
// Сохранить информацию о просмотре endpoint'а
func (h *Handlers) RecordHit(c *gin.Context) {
	var req hitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hit := &EndpointHit{
		App:     req.App,
		URI:     req.URI,
		IP:      req.IP,
		Created: req.Timestamp.Time,
	}

	if err := h.service.RecordHit(c.Request.Context(), hit); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record hit"})
		return
	}

	c.Status(http.StatusCreated)
}

// GetStats - GET /stats?start&end&uris&unique
// Получить агрегированную статистику просмотров
func (h *Handlers) GetStats(c *gin.Context) {
	start, ok := h.requiredTime(c, "start")
	if !ok {
		return
	}
	end, ok := h.requiredTime(c, "end")
	if !ok {
		return
	}

	uris := c.QueryArray("uris")
	unique := c.Query("unique") == "true"

	result, err := h.service.GetStats(c.Request.Context(), start, end, uris, unique)
	if err != nil {
		if errors.Is(err, errors.KindValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build stats"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handlers) requiredTime(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return time.Time{}, false
	}

	t, err := models.ParseDateTime(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + " value"})
		return time.Time{}, false
	}
	return t, true
}

// Router собирает gin-маршруты сервиса статистики
func Router(service *Service) *gin.Engine {
	h := NewHandlers(service)

	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/hit", h.RecordHit)
	router.GET("/stats", h.GetStats)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "afisha-stats"})
	})

	return router
}
