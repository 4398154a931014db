package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/papercomputeco/emorelay/api/mcp"
	"github.com/papercomputeco/emorelay/pkg/emotion"
	"github.com/papercomputeco/emorelay/pkg/llm"
)

// Server is the emorelay HTTP server.
type Server struct {
	config Config
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new API server. The dispatcher, RAG client and provider
// status are injected so they can be shared with other components (e.g. the
// MCP tools).
func NewServer(config Config, logger *slog.Logger) (*Server, error) {
	if config.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if config.RAG == nil {
		return nil, errors.New("rag client is required")
	}
	if config.Providers == nil {
		return nil, errors.New("provider status is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if config.Classifier == nil {
		config.Classifier = emotion.NewClassifier(nil)
	}

	s := &Server{
		config: config,
		logger: logger,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		BodyLimit:             BodyLimit,
		ErrorHandler:          s.handleError,
	})
	s.app = app

	app.Use(recover.New())
	app.Use(s.requestLogger)
	app.Use(cors.New())
	app.Use(compress.New())

	app.Get("/health", s.handleHealth)

	apiGroup := app.Group("/api")
	apiGroup.Post("/chat", s.handleChat)
	apiGroup.Post("/emotion-chat", s.handleEmotionChat)
	apiGroup.Post("/emotion", s.handleEmotion)
	apiGroup.Get("/providers", s.handleProviders)

	if config.MCP {
		mcpServer, err := mcp.NewServer(mcp.Config{
			Dispatcher: config.Dispatcher,
			Classifier: config.Classifier,
			Logger:     logger,
		})
		if err != nil {
			return nil, err
		}
		app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))
	}

	if config.StaticDir != "" {
		app.Static("/", config.StaticDir)
	}

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		"listen", s.config.ListenAddr,
		"mcp", s.config.MCP,
		"static_dir", s.config.StaticDir,
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// requestLogger logs one line per request once the handler chain returns.
func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = llm.StatusCode(err)
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
	}

	level := slog.LevelDebug
	if status >= fiber.StatusInternalServerError {
		level = slog.LevelWarn
	}
	s.logger.Log(c.UserContext(), level, "http request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration", time.Since(start),
	)

	return err
}

// handleError is the fiber error handler. Errors from this package's
// taxonomy keep their mapped status; fiber errors (404, 413, ...) keep theirs;
// anything else, including recovered panics, is a 500.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	status := llm.StatusCode(err)
	msg := err.Error()

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		msg = fe.Message
	}

	if status >= fiber.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Path(), "status", status, "error", err)
	}

	return c.Status(status).JSON(llm.ErrorResponse{Error: msg})
}
