// Package api exposes the planner over HTTP with gin.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"task-planner/internal/deadline"
	"task-planner/internal/service"
)

// Services bundles the dependencies of the HTTP handlers.
type Services struct {
	Auth          service.AuthServiceInterface
	Users         service.UserServiceInterface
	Categories    service.CategoryServiceInterface
	Tasks         service.TaskServiceInterface
	Summaries     service.SummaryServiceInterface
	Notifications service.NotificationSchedulerInterface
}

type Options struct {
	AllowedOrigins    string
	Clock             deadline.Clock
	CountdownInterval time.Duration
	Logger            *log.Logger
}

// NewRouter builds the gin engine with every route under /api/v1.
func NewRouter(svc Services, opts Options) *gin.Engine {
	if opts.Clock == nil {
		opts.Clock = deadline.SystemClock{}
	}
	if opts.CountdownInterval <= 0 {
		opts.CountdownInterval = time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("http")

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger), CORSMiddleware(opts.AllowedOrigins))

	api := router.Group("/api/v1")
	api.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	RegisterPublicUserRoutes(api, svc.Users, logger)

	countdown := newCountdownHandler(svc.Tasks, opts.Clock, opts.CountdownInterval, logger)
	api.GET("/tasks/:id/countdown", WebSocketAuthMiddleware(svc.Auth), countdown.Serve)

	authed := api.Group("")
	authed.Use(AuthMiddleware(svc.Auth))
	RegisterUserRoutes(authed, svc.Users, logger)
	RegisterCategoryRoutes(authed, svc.Categories, logger)
	RegisterTaskRoutes(authed, svc.Tasks, svc.Summaries, logger)
	RegisterNotificationRoutes(authed, svc.Notifications, logger)

	return router
}
