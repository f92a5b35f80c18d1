package handler

import (
	"errors"
	"fmt"
	"net/http"

	"accounts/internal/dto"
	"accounts/internal/model"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// captureException 回報非預期錯誤；未初始化 sentry 時為 no-op
var captureException = func(c echo.Context, err error) {
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetRequest(c.Request())
		scope.SetTag("route", c.Path())
	})
	hub.CaptureException(err)
}

// NewHTTPErrorHandler 將領域錯誤對應到 HTTP 狀態碼；非預期錯誤只記錄，不回傳內部訊息
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := resolveError(err)
		if code == http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
			captureException(c, err)
		}
		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, dto.HTTPError{Message: msg})
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}

func resolveError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil && he.Code >= http.StatusInternalServerError {
			return he.Code, dto.MsgInternal
		}
		if m, ok := he.Message.(string); ok {
			return he.Code, m
		}
		return he.Code, fmt.Sprint(he.Message)
	}

	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.MsgInvalidCredentials
	case errors.Is(err, model.ErrInvalidToken):
		return http.StatusUnauthorized, dto.MsgInvalidToken
	case errors.Is(err, model.ErrAccessDenied):
		return http.StatusForbidden, dto.MsgAccessDenied
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, dto.MsgNotFound
	case errors.Is(err, model.ErrEmailTaken):
		return http.StatusConflict, dto.MsgEmailTaken
	case errors.Is(err, model.ErrInvalidStateTransition),
		errors.Is(err, model.ErrInvalidRole),
		errors.Is(err, model.ErrInvalidPaging):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, model.ErrPasswordTooLong):
		return http.StatusBadRequest, model.ErrPasswordTooLong.Error()
	case errors.Is(err, model.ErrTooManyAttempts):
		return http.StatusTooManyRequests, dto.MsgTooManyRequests
	}
	return http.StatusInternalServerError, dto.MsgInternal
}
