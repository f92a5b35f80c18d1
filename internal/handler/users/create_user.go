// File: internal/handler/users/create_user.go
package users

import (
	"net/http"

	"accounts/internal/dto"
	"accounts/internal/handler"
	"accounts/internal/model"
	"accounts/internal/service"

	"github.com/labstack/echo/v4"
)

// CreateUserHandler 管理員建立新使用者
// @Summary     Create a new user
// @Description 建立帳號並指定角色 (Email 會自動轉小寫)
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body     dto.CreateUserRequest true "使用者資料"
// @Success     201  {object} dto.UserResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Failure     403  {object} dto.HTTPError
// @Failure     409  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/users [post]
func CreateUserHandler(svc AccountService) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req dto.CreateUserRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		u, err := svc.CreateUser(c.Request().Context(), service.NewAccount{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Role:     model.Role(req.Role),
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, dto.NewUserResponse(u))
	}
}
