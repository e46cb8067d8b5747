package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"

	"movieapi/errs"
	"movieapi/movie"
	"movieapi/pkg/sentry"

	"github.com/labstack/echo/v4"
)

const movieHandleKey = "movie.handle"

// withMovieHandle scopes a store handle to the request. The handler's error
// response, including the 500 for a panic, is written here before the handle
// is released, so release happens exactly once and after the response.
func (s *Server) withMovieHandle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.Connector == nil {
			return errs.Errorf(errs.ENOTIMPLEMENTED, "movie store not configured")
		}

		ctx := c.Request().Context()
		if s.StoreTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.StoreTimeout)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))
		}

		h, err := s.Connector.Acquire(ctx)
		if err != nil {
			s.Logger.ErrorContext(ctx, "cannot acquire movie store",
				"error", err,
				"driver", s.Driver,
				"request_id", requestID(c),
			)
			sentry.WithContext(c).
				WithTags(map[string]string{"store": "acquire", "driver": s.Driver}).
				Errorf("acquire movie store: %w", err)
			return movie.ErrUnavailable
		}
		defer s.release(c, h)

		c.Set(movieHandleKey, h)
		if err := s.serve(c, next); err != nil {
			c.Error(err)
		}
		return nil
	}
}

// serve runs next and turns a panic into an error.
func (s *Server) serve(c echo.Context, next echo.HandlerFunc) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if r == http.ErrAbortHandler {
			panic(r)
		}
		s.Logger.ErrorContext(c.Request().Context(), "handler panicked",
			"panic", fmt.Sprint(r),
			"stack", string(debug.Stack()),
			"request_id", requestID(c),
		)
		if e, ok := r.(error); ok {
			err = fmt.Errorf("panic: %w", e)
		} else {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return next(c)
}

func (s *Server) release(c echo.Context, h movie.Handle) {
	ctx := context.WithoutCancel(c.Request().Context())
	if err := h.Release(ctx); err != nil {
		s.Logger.WarnContext(ctx, "cannot release movie store",
			"error", err,
			"driver", s.Driver,
			"request_id", requestID(c),
		)
		sentry.WithContext(c).
			WithTags(map[string]string{"store": "release", "driver": s.Driver}).
			WithExtras(map[string]interface{}{"error": err.Error()}).
			Warning("cannot release movie store")
	}
}

// movies returns the usecase bound to the request's store handle.
func movies(c echo.Context) *movie.Usecase {
	return movie.NewUsecase(c.Get(movieHandleKey).(movie.Handle))
}
