// File: internal/handler/auth/login.go
package auth

import (
	"net/http"

	"accounts/internal/dto"
	"accounts/internal/handler"
	"accounts/internal/model"

	"github.com/labstack/echo/v4"
)

// LoginHandler 使用 Email/Password 驗證並回傳 JWT；帳號角色必須等於 role
// @Summary     登入使用者
// @Description 使用 Email 與 Password 進行驗證，回傳存取令牌、到期時間與使用者資料
// @Tags        auth
// @Accept      json
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       body body     dto.LoginRequest true "登入資料"
// @Success     200  {object} dto.LoginResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Failure     429  {object} dto.HTTPError
// @Router      /auth/login [post]
// @Router      /admin/auth/login [post]
func LoginHandler(svc AccountService, role model.Role) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.LoginRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		res, err := svc.Login(c.Request().Context(), req.Email, req.Password, role)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.LoginResponse{
			AccessToken: res.AccessToken,
			TokenType:   dto.TokenTypeBearer,
			ExpiresAt:   res.ExpiresAt,
			User:        dto.NewUserResponse(res.User),
		})
	}
}
