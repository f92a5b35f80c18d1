// File: internal/handler/auth/register.go
package auth

import (
	"net/http"

	"accounts/internal/dto"
	"accounts/internal/handler"

	"github.com/labstack/echo/v4"
)

// RegisterHandler 自行註冊帳號，角色固定為 user
// @Summary     註冊
// @Description 建立一般使用者帳號，Email 會轉為小寫
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     dto.RegisterRequest true "註冊資料"
// @Success     201  {object} dto.UserResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     409  {object} dto.HTTPError
// @Failure     429  {object} dto.HTTPError
// @Router      /auth/register [post]
func RegisterHandler(svc AccountService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.RegisterRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		u, err := svc.Register(c.Request().Context(), req.Name, req.Email, req.Password)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, dto.NewUserResponse(u))
	}
}
