package httpserver

import (
	"fmt"
	"net/http"

	"movieapi/errs"
	"movieapi/movie"

	"github.com/labstack/echo/v4"
)

const internalErrorMessage = "Internal server error"

type errorResponse struct {
	Error string `json:"error"`
}

type updateResponse struct {
	Message      string      `json:"message"`
	UpdatedMovie movie.Movie `json:"updatedMovie"`
}

func writeError(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResponse{Error: message})
}

func writeList(c echo.Context, movies []movie.Movie) error {
	return c.JSON(http.StatusOK, movies)
}

func writeUpdated(c echo.Context, m movie.Movie) error {
	return c.JSON(http.StatusOK, updateResponse{
		Message:      "Movie updated",
		UpdatedMovie: m,
	})
}

// errorStatus maps an error returned by a handler to the response status and
// the message shown to the client.
func errorStatus(err error) (int, string) {
	if he, ok := err.(*echo.HTTPError); ok {
		if he.Internal != nil {
			return he.Code, http.StatusText(he.Code)
		}
		return he.Code, fmt.Sprint(he.Message)
	}

	switch errs.ErrorCode(err) {
	case errs.EINVALID:
		return http.StatusBadRequest, errs.ErrorMessage(err)
	case errs.ENOTFOUND:
		return http.StatusNotFound, errs.ErrorMessage(err)
	case errs.ENOTIMPLEMENTED:
		return http.StatusNotImplemented, errs.ErrorMessage(err)
	case errs.EUNAVAILABLE:
		return http.StatusServiceUnavailable, errs.ErrorMessage(err)
	}
	return http.StatusInternalServerError, internalErrorMessage
}
