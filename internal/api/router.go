package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/minilinkedin/social-network/docs"
	"github.com/minilinkedin/social-network/internal/api/handler"
	"github.com/minilinkedin/social-network/internal/api/middleware"
	"github.com/minilinkedin/social-network/internal/core/ports"
	"github.com/minilinkedin/social-network/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Auth    ports.AuthService
	Users   ports.UserService
	Content ports.ContentService

	// Checks are pinged by the readiness probe, keyed by dependency name.
	Checks map[string]handlers.Checker

	Log         zerolog.Logger
	CORSOrigins []string

	// Metrics are served on /metrics when Registerer is set. Gatherer
	// defaults to prometheus.DefaultGatherer.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: deps.CORSOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			middleware.TokenHeader,
		},
	}))

	if deps.Registerer != nil {
		gatherer := deps.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "http",
			Registerer: deps.Registerer,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics"
			},
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: gatherer,
		}))
	}

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	postHandler := handler.NewPostHandler(deps.Content)
	commentHandler := handler.NewCommentHandler(deps.Content)
	requireAuth := middleware.Auth(deps.Auth)

	g := e.Group("/api")

	// --- Auth routes ---
	g.POST("/register", authHandler.Register)
	g.POST("/login", authHandler.Login)
	g.GET("/auth/me", authHandler.Me, requireAuth)

	// --- Users ---
	g.GET("/users", userHandler.List)
	g.GET("/users/:id", userHandler.Get)
	g.PUT("/users/:id", userHandler.UpdateProfile, requireAuth, middleware.SelfOnly("id"))

	// --- Posts & comments ---
	g.GET("/posts", postHandler.List)
	g.POST("/posts", postHandler.Create, requireAuth)
	g.GET("/posts/:id", postHandler.Get)
	g.GET("/comments", commentHandler.List)
	g.POST("/comments", commentHandler.Create, requireAuth)

	// --- Health probes (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewHealthDependenciesHandler(deps.Checks).Readiness)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
