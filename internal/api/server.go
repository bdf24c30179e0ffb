package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"afisha/internal/config"
	"afisha/internal/database"
	"afisha/internal/external"
	"afisha/internal/handlers"
	"afisha/internal/logger"
	"afisha/internal/messaging"
	"afisha/internal/middleware"
	"afisha/internal/repository"
	"afisha/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server представляет HTTP сервер API
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	services *service.Services
	repos    *repository.Repositories
}

// NewServer создает новый экземпляр сервера
func NewServer(cfg *config.Config) *Server {
	// Устанавливаем режим Gin
	gin.SetMode(cfg.GinMode)

	// Подключаемся к базе данных
	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	// Запускаем миграции
	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	// Подключаемся к NATS; без брокера работаем дальше, но без уведомлений
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		slog.Warn("NATS unavailable, lifecycle notifications disabled", "error", err)
		natsClient = messaging.Disabled()
	}

	// Клиент сервиса статистики просмотров
	statsClient := external.NewStatsClient(cfg.Stats)

	// Создаем репозитории и сервисы
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, statsClient, natsClient, cfg.Lifecycle)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

// setupRoutes настраивает все API роуты
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	// Публичные endpoints
	s.router.GET("/events", h.SearchEventsPublic)
	s.router.GET("/events/:eventId", h.GetEventPublic)
	s.router.GET("/categories", h.ListCategories)
	s.router.GET("/categories/:catId", h.GetCategory)
	s.router.GET("/compilations", h.ListCompilations)
	s.router.GET("/compilations/:compId", h.GetCompilation)

	// Приватные endpoints текущего пользователя
	users := s.router.Group("/users/:userId")
	{
		users.POST("/events", h.CreateEvent)
		users.GET("/events", h.GetEventsByUser)
		users.GET("/events/:eventId", h.GetEventOfUser)
		users.PATCH("/events/:eventId", h.UpdateEventByUser)
		users.GET("/events/:eventId/requests", h.GetEventRequests)
		users.PATCH("/events/:eventId/requests", h.UpdateRequestsStatus)

		users.POST("/requests", h.CreateRequest)
		users.GET("/requests", h.GetUserRequests)
		users.PATCH("/requests/:requestId/cancel", h.CancelRequest)

		users.POST("/subscriptions", h.Subscribe)
		users.GET("/subscriptions", h.ListSubscriptions)
		users.GET("/subscriptions/feed", h.SubscriptionFeed)
		users.GET("/subscriptions/subscribers", h.ListSubscribers)
		users.GET("/subscriptions/subscribers/count", h.CountSubscribers)
		users.DELETE("/subscriptions/:ownerId", h.Unsubscribe)
	}

	// Администрирование
	admin := s.router.Group("/admin")
	{
		admin.GET("/events", h.SearchEventsAdmin)
		admin.PATCH("/events/:eventId", h.UpdateEventByAdmin)

		admin.POST("/users", h.CreateUser)
		admin.GET("/users", h.ListUsers)
		admin.DELETE("/users/:userId", h.DeleteUser)

		admin.POST("/categories", h.CreateCategory)
		admin.PATCH("/categories/:catId", h.UpdateCategory)
		admin.DELETE("/categories/:catId", h.DeleteCategory)

		admin.POST("/compilations", h.CreateCompilation)
		admin.PATCH("/compilations/:compId", h.UpdateCompilation)
		admin.DELETE("/compilations/:compId", h.DeleteCompilation)
	}

	// Health check и метрики
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// healthCheck обрабатывает health check запросы
func (s *Server) healthCheck(c *gin.Context) {
	dbHealth := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if dbHealth.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   dbHealth.Status,
		"service":  "afisha-api",
		"version":  "1.0.0",
		"database": dbHealth,
	})
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter возвращает роутер для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup закрывает соединения
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
