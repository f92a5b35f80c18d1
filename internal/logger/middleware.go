package logger

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger 每個請求寫一筆 access log，5xx 以 error 等級記錄
func RequestLogger(l zerolog.Logger) echo.MiddlewareFunc {
	logMW := middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			status := v.Status
			var he *echo.HTTPError
			if errors.As(v.Error, &he) {
				status = he.Code
			}
			ev := l.Info()
			if status >= 500 {
				ev = l.Error()
			}
			if v.Error != nil {
				ev = ev.Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return logMW(func(c echo.Context) error {
			err := next(c)
			if err != nil {
				// 先交給 HTTPErrorHandler 寫出回應，log 才會記到實際狀態碼
				c.Error(err)
			}
			return err
		})
	}
}
