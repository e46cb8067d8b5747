package httpserver

import (
	"net/url"

	"movieapi/movie"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// pathParam returns the unescaped value of a path parameter. Echo routes on
// URL.RawPath when it is set and hands out escaped values; otherwise the
// value is already decoded.
func pathParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// queryParam distinguishes an absent query parameter from an empty one.
func queryParam(c echo.Context, name string) (string, bool) {
	values, ok := c.QueryParams()[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func movieID(c echo.Context) (primitive.ObjectID, error) {
	return movie.ParseID(c.Param("id"))
}

func bindInput(c echo.Context) (movie.Input, error) {
	return movie.DecodeInput(c.Request().Body)
}
