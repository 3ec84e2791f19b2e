package server

import (
	"net/http"
	"time"

	"github.com/existflow/lifeos/internal/auth"
	"github.com/existflow/lifeos/internal/logger"
	"github.com/existflow/lifeos/internal/store"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server is the Life OS API server. It is stateless apart from the
// injected store; every request stands alone.
type Server struct {
	store  store.Store
	tokens *auth.Tokens
	echo   *echo.Echo
}

// New creates a server on top of an already-opened store.
func New(st store.Store, tokens *auth.Tokens) *Server {
	s := &Server{
		store:  st,
		tokens: tokens,
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true

	// Request/response logging
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			res := c.Response()
			logger.Info("HTTP",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("status", res.Status),
				logger.F("duration", time.Since(start).String()))

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	e.GET("/health", s.handleHealth)

	// Auth endpoints (public)
	e.POST("/api/auth/register", s.handleRegister)
	e.POST("/api/auth/login", s.handleLogin)

	// Everything else requires a valid token
	api := e.Group("/api", s.authMiddleware)

	api.GET("/tasks/inbox", s.handleInboxTasks)
	api.POST("/tasks", s.handleCreateTask)
	api.PATCH("/tasks/:id", s.handleUpdateTask)
	api.PATCH("/tasks/:id/move", s.handleMoveTask)
	api.DELETE("/tasks/:id", s.handleDeleteTask)

	api.GET("/spaces", s.handleListSpaces)
	api.POST("/spaces", s.handleCreateSpace)
	api.DELETE("/spaces/:id", s.handleDeleteSpace)

	api.GET("/projects", s.handleListProjects)
	api.POST("/projects", s.handleCreateProject)
	api.GET("/projects/:projectId/tasks", s.handleProjectTasks)
	api.DELETE("/projects/:id", s.handleDeleteProject)

	s.echo = e
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// message is the JSON body for errors and auth confirmations.
func message(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"message": msg})
}

// internalError logs the failure and answers with a generic 500.
func internalError(c echo.Context, op string, err error) error {
	logger.Error("internal error", logger.F("op", op), logger.F("error", err))
	return message(c, http.StatusInternalServerError, "internal server error")
}
