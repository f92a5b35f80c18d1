// File: internal/handler/users/lifecycle.go
package users

import (
	"context"
	"net/http"

	"accounts/internal/dto"
	"accounts/internal/handler"
	"accounts/internal/model"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func transitionHandler(apply func(context.Context, uuid.UUID) (*model.User, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParseID(c, "id")
		if err != nil {
			return err
		}
		u, err := apply(c.Request().Context(), id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.NewUserResponse(u))
	}
}

// DeactivateUserHandler 停用帳號 (soft delete)
// @Summary     Deactivate user
// @Description 帳號已停用時回傳 400
// @Tags        users
// @Produce     json
// @Param       id  path     string true "使用者 ID" format(uuid)
// @Success     200 {object} dto.UserResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     401 {object} dto.HTTPError
// @Failure     403 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/users/{id}/deactivate [put]
func DeactivateUserHandler(svc AccountService) echo.HandlerFunc {
	return transitionHandler(svc.Deactivate)
}

// ReactivateUserHandler 重新啟用帳號
// @Summary     Reactivate user
// @Description 帳號仍為啟用狀態時回傳 400
// @Tags        users
// @Produce     json
// @Param       id  path     string true "使用者 ID" format(uuid)
// @Success     200 {object} dto.UserResponse
// @Failure     400 {object} dto.HTTPError
// @Failure     401 {object} dto.HTTPError
// @Failure     403 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/users/{id}/reactivate [put]
func ReactivateUserHandler(svc AccountService) echo.HandlerFunc {
	return transitionHandler(svc.Reactivate)
}
