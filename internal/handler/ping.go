// File: internal/handler/ping.go
package handler

import (
	"net/http"

	"accounts/internal/middleware"

	"github.com/labstack/echo/v4"
)

// PingResponse 連線測試回應模型
// swagger:model PingResponse
type PingResponse struct {
	// 回應訊息
	Message string `json:"message" example:"pong"`
	// 帶有效 token 時為呼叫者 ID
	UserID string `json:"user_id,omitempty" example:"3fa85f64-5717-4562-b3fc-2c963f66afa6"`
	Role   string `json:"role,omitempty" example:"user"`
}

// PingHandler 連線測試，token 可有可無
// @Summary     Ping
// @Description 回傳 pong；若帶有效 token 一併回傳呼叫者身分
// @Tags        health
// @Produce     json
// @Success     200 {object} PingResponse
// @Security    ApiKeyAuth
// @Router      /ping [get]
func PingHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := PingResponse{Message: "pong"}
		if id, ok := middleware.IdentityFrom(c); ok {
			resp.UserID = id.UserID.String()
			resp.Role = string(id.Role)
		}
		return c.JSON(http.StatusOK, resp)
	}
}
