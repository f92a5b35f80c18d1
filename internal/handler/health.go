package handler

import (
	"context"
	"net/http"
	"time"

	"accounts/internal/cache"
	"accounts/internal/database"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 3 * time.Second

type dependencyStatus struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty"`
}

// ReadinessResponse 各相依服務的狀態
// swagger:model ReadinessResponse
type ReadinessResponse struct {
	Status       string                      `json:"status" example:"ok"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// LivenessHandler 行程存活即回 200
// @Summary     Liveness probe
// @Tags        health
// @Produce     json
// @Success     200 {object} map[string]string
// @Router      /health [get]
func LivenessHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}

// ReadinessHandler 檢查資料庫與 Redis；rdb 為 nil 時視為未啟用
// @Summary     Readiness probe
// @Tags        health
// @Produce     json
// @Success     200 {object} ReadinessResponse
// @Failure     503 {object} ReadinessResponse
// @Router      /health/ready [get]
func ReadinessHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
		defer cancel()

		deps := make(map[string]dependencyStatus, 2)
		healthy := true

		if err := db.Ping(ctx); err != nil {
			deps["postgres"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
		} else {
			deps["postgres"] = dependencyStatus{Status: "ok"}
		}

		if rdb == nil {
			deps["redis"] = dependencyStatus{Status: "disabled"}
		} else if err := rdb.Ping(ctx).Err(); err != nil {
			deps["redis"] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
		} else {
			deps["redis"] = dependencyStatus{Status: "ok"}
		}

		status, code := "ok", http.StatusOK
		if !healthy {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		return c.JSON(code, ReadinessResponse{Status: status, Dependencies: deps})
	}
}
