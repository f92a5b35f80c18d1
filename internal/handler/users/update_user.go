// File: internal/handler/users/update_user.go
package users

import (
	"net/http"

	"accounts/internal/dto"
	"accounts/internal/handler"
	"accounts/internal/model"

	"github.com/labstack/echo/v4"
)

// UpdateUserPasswordHandler 管理員重設使用者密碼
// @Summary     Reset user password
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id   path     string                    true "使用者 ID" format(uuid)
// @Param       body body     dto.UpdatePasswordRequest true "新密碼"
// @Success     200  {object} dto.UserResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Failure     403  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/users/{id}/password [put]
func UpdateUserPasswordHandler(svc AccountService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		var req dto.UpdatePasswordRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		u, err := svc.UpdatePassword(c.Request().Context(), id, req.Password)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.NewUserResponse(u))
	}
}

// UpdateUserRoleHandler 變更使用者角色
// @Summary     Change user role
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id   path     string                true "使用者 ID" format(uuid)
// @Param       body body     dto.UpdateRoleRequest true "新角色"
// @Success     200  {object} dto.UserResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Failure     403  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/users/{id}/role [put]
func UpdateUserRoleHandler(svc AccountService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		var req dto.UpdateRoleRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		u, err := svc.UpdateRole(c.Request().Context(), id, model.Role(req.Role))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.NewUserResponse(u))
	}
}
