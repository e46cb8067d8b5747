package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const welcomeMessage = "Welcome to the Movies API"

func (s *Server) RegisterHealthRoutes() {
	s.Router.GET("/", s.welcome)
	s.Router.GET("/healthcheck", s.healthCheck)
}

func (s *Server) welcome(c echo.Context) error {
	return c.String(http.StatusOK, welcomeMessage)
}

// healthCheck godoc
// @Summary Health Check
// @Description Check if server is alive
// @Tags health
// @Success 200 {object} map[string]string
// @Router /healthcheck [get]
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "OK",
	})
}
