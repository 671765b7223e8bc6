// Package api exposes the planner over HTTP.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"day-planner/internal/config"
	"day-planner/internal/domain"
	"day-planner/internal/export"
	"day-planner/internal/logging"
	"day-planner/internal/metrics"
	"day-planner/internal/placement"
	"day-planner/internal/services"
	"day-planner/internal/validation"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators the server routes requests to.
type Dependencies struct {
	Events  services.EventService
	Tasks   services.TaskService
	Hub     *services.NotificationHub
	Engine  *placement.Engine
	Store   Pinger
	Metrics *metrics.Metrics
	Logger  *logging.Logger
}

// Server represents the HTTP server
type Server struct {
	echo    *echo.Echo
	config  *config.Config
	logger  *logging.Logger
	metrics *metrics.Metrics
	events  services.EventService
	tasks   services.TaskService
	hub     *services.NotificationHub
	engine  *placement.Engine
	store   Pinger
	ics     *export.ICS
	mapper  *domain.Mapper
}

// New creates a new server instance
func New(cfg *config.Config, deps Dependencies) *Server {
	logger := logging.OrNop(deps.Logger).WithComponent("api")

	e := echo.New()
	e.Validator = validation.NewValidator()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(logger)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	s := &Server{
		echo:    e,
		config:  cfg,
		logger:  logger,
		metrics: deps.Metrics,
		events:  deps.Events,
		tasks:   deps.Tasks,
		hub:     deps.Hub,
		engine:  deps.Engine,
		store:   deps.Store,
		ics: export.NewICS(export.Options{
			Location: cfg.Calendar.Location(),
			Logger:   logger,
		}),
		mapper: domain.NewMapper(logger),
	}

	s.setupMiddleware()
	if cfg.Metrics.Enabled && deps.Metrics != nil {
		s.setupMetrics()
	}
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"request_id", values.RequestID,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Warnw("HTTP request failed", fields...)
			} else {
				s.logger.Debugw("HTTP request", fields...)
			}
			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Server.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, HeaderUserID},
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))

	if n := s.config.Server.RateLimitRequests; n > 0 {
		window := s.config.Server.RateLimitWindow
		if window <= 0 {
			window = time.Minute
		}
		s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(float64(n) / window.Seconds()),
				Burst:     n,
				ExpiresIn: window,
			}),
			IdentifierExtractor: func(c echo.Context) (string, error) {
				if user := c.Request().Header.Get(HeaderUserID); user != "" {
					return user, nil
				}
				return c.RealIP(), nil
			},
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return c.JSON(http.StatusTooManyRequests, errorBody("RATE_LIMITED", "rate limit exceeded", nil))
			},
		}))
	}

	if s.config.Server.RequestTimeout > 0 {
		s.echo.Use(middleware.ContextTimeout(s.config.Server.RequestTimeout))
	}
}

// setupMetrics records every request and serves the registry.
func (s *Server) setupMetrics() {
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = httpStatus(err)
				}
			}
			s.metrics.ObserveRequest(c.Request().Method, c.Path(), status, time.Since(start))
			return err
		}
	})
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	v1 := s.echo.Group("/api/v1", requireUser)

	events := v1.Group("/events")
	events.GET("", s.listEvents)
	events.POST("", s.createEvent)
	events.POST("/batch", s.saveEventBatch)
	events.PUT("/:id", s.updateEvent)
	events.DELETE("/:id", s.deleteEvent)
	events.GET("/:id/conflicts", s.eventConflicts)

	v1.GET("/occurrences", s.occurrences)
	v1.GET("/occurrences/range", s.occurrencesInRange)
	v1.GET("/days/:date/summary", s.daySummary)
	v1.GET("/calendar.ics", s.calendarFeed)

	placementGroup := v1.Group("/placement")
	placementGroup.POST("/drop", s.computeDrop)
	placementGroup.POST("/slot", s.computeSlot)

	tasks := v1.Group("/tasks")
	tasks.GET("", s.listTasks)
	tasks.POST("", s.saveTask)
	tasks.PUT("/:id", s.updateTask)

	notifications := v1.Group("/notifications")
	notifications.POST("/session", s.openNotifications)
	notifications.GET("", s.drainNotifications)
	notifications.DELETE("/session", s.closeNotifications)
}

// ServeHTTP lets the server be mounted or driven by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server and ends notification sessions
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	if s.hub != nil {
		s.hub.CloseAll()
	}
	return s.echo.Shutdown(ctx)
}

func (s *Server) healthCheck(c echo.Context) error {
	status := http.StatusOK
	body := map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}

	if s.store != nil {
		if err := s.store.Ping(c.Request().Context()); err != nil {
			s.logger.WithError(err).Warnw("health check failed")
			status = http.StatusServiceUnavailable
			body["status"] = "error"
			body["database"] = "unreachable"
		}
	}
	return c.JSON(status, body)
}
