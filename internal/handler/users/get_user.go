// File: internal/handler/users/get_user.go
package users

import (
	"net/http"

	"accounts/internal/dto"
	"accounts/internal/handler"

	"github.com/labstack/echo/v4"
)

// GetUserHandler 取得指定使用者，停用中的帳號也可查詢
// @Summary     Get user by ID
// @Tags        users
// @Produce     json
// @Param       id  path     string true "使用者 ID" format(uuid)
// @Success     200 {object} dto.UserResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     401 {object} dto.HTTPError
// @Failure     403 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/users/{id} [get]
func GetUserHandler(svc AccountService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		u, err := svc.GetProfile(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.NewUserResponse(u))
	}
}
