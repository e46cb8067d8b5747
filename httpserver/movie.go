package httpserver

import (
	"net/http"

	"movieapi/movie"

	"github.com/labstack/echo/v4"
)

// RegisterMovieRoutes scopes a store handle to each movie route. The handle
// middleware is per route so unmatched paths and methods never acquire one.
func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	g.GET("", s.handleListMovies, s.withMovieHandle)
	g.POST("", s.handleCreateMovie, s.withMovieHandle)
	g.GET("/:id", s.handleGetMovie, s.withMovieHandle)
	g.PATCH("/:id", s.handleUpdateMovie, s.withMovieHandle)
	g.DELETE("/:id", s.handleDeleteMovie, s.withMovieHandle)
	g.GET("/director/:director", s.handleListMoviesByDirector, s.withMovieHandle)
	g.GET("/rate/:rate", s.handleListMoviesByRate, s.withMovieHandle)
}

// handleListMovies godoc
// @Summary List Movies
// @Description List all movies, optionally filtered by exact genre
// @Tags movies
// @Produce json
// @Param genero query string false "Genre"
// @Success 200 {array} movie.Movie
// @Failure 404 {object} errorResponse
// @Router /movies [get]
func (s *Server) handleListMovies(c echo.Context) error {
	genre, present := queryParam(c, "genero")

	result, err := movies(c).List(c.Request().Context(), movie.GenreFilter(genre, present))
	if err != nil {
		return err
	}
	return writeList(c, result)
}

// handleGetMovie godoc
// @Summary Get Movie
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} movie.Movie
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /movies/{id} [get]
func (s *Server) handleGetMovie(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}

	m, err := movies(c).Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, m)
}

func (s *Server) handleListMoviesByDirector(c echo.Context) error {
	f := movie.DirectorFilter(pathParam(c, "director"))

	result, err := movies(c).List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return writeList(c, result)
}

// handleListMoviesByRate godoc
// @Summary List Movies By Rating
// @Description List movies rated at least the given value
// @Tags movies
// @Produce json
// @Param rate path number true "Minimum rating"
// @Success 200 {array} movie.Movie
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /movies/rate/{rate} [get]
func (s *Server) handleListMoviesByRate(c echo.Context) error {
	f, err := movie.RatingFilter(pathParam(c, "rate"))
	if err != nil {
		return err
	}

	result, err := movies(c).List(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return writeList(c, result)
}

// handleCreateMovie godoc
// @Summary Create Movie
// @Tags movies
// @Accept json
// @Produce json
// @Success 201 {object} movie.Movie
// @Failure 400 {object} errorResponse
// @Router /movies [post]
func (s *Server) handleCreateMovie(c echo.Context) error {
	in, err := bindInput(c)
	if err != nil {
		return err
	}

	m, err := movies(c).Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, m)
}

func (s *Server) handleUpdateMovie(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}
	in, err := bindInput(c)
	if err != nil {
		return err
	}

	m, err := movies(c).Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return writeUpdated(c, m)
}

func (s *Server) handleDeleteMovie(c echo.Context) error {
	id, err := movieID(c)
	if err != nil {
		return err
	}

	if err := movies(c).Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
