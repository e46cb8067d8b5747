package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"movieapi/movie"
	"movieapi/pkg/config"
	"movieapi/pkg/sentry"

	sentrygo "github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	// StoreTimeout bounds every request under /movies; zero disables it.
	StoreTimeout time.Duration

	Connector movie.Connector

	// Driver names the store backend in logs and error reports.
	Driver string

	Logger *slog.Logger
}

func Default(cfg *config.Config) *Server {
	s := Server{
		Router:       echo.New(),
		Addr:         ":3000",
		AllowOrigins: []string{"*"},
		Logger:       slog.Default(),
	}
	if cfg.Port > 0 {
		s.Addr = fmt.Sprintf(":%d", cfg.Port)
	}
	if cfg.AllowOrigins != "" {
		s.AllowOrigins = strings.Split(cfg.AllowOrigins, ",")
	}
	s.StoreTimeout = cfg.Store.Timeout
	s.Driver = cfg.Store.Driver

	s.Router.HideBanner = true
	s.Router.HTTPErrorHandler = s.handleHTTPError
	s.RegisterGlobalMiddlewares()

	s.RegisterHealthRoutes()
	s.RegisterMovieRoutes(s.Router.Group("/movies"))
	return &s
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.BodyLimit("1M"))
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	s.Router.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.AllowOrigins,
		}))
	}
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

// handleHTTPError writes the single error response of a request. Internal
// failures are logged and reported; their details never reach the client.
func (s *Server) handleHTTPError(err error, c echo.Context) {
	code, message := errorStatus(err)

	if code >= http.StatusInternalServerError {
		s.Logger.ErrorContext(c.Request().Context(), "request failed",
			"error", err,
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", requestID(c),
		)
		sentry.WithContext(c).
			WithContextValues(map[string]sentrygo.Context{
				"route": {"method": c.Request().Method, "path": c.Path(), "status": code},
			}).
			Error(err)
	}

	// Don't write response if already committed
	if c.Response().Committed {
		return
	}
	if err := writeError(c, code, message); err != nil {
		s.Logger.Error("cannot write error response", "error", err)
	}
}

func requestID(c echo.Context) string {
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
