// File: internal/handler/auth/me.go
package auth

import (
	"net/http"

	"accounts/internal/dto"
	"accounts/internal/handler"
	"accounts/internal/middleware"
	"accounts/internal/model"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func currentUserID(c echo.Context) (uuid.UUID, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return uuid.Nil, model.ErrInvalidToken
	}
	return id.UserID, nil
}

// MeHandler 取得目前登入者資料
// @Summary     取得自己的資料
// @Tags        auth
// @Produce     json
// @Success     200 {object} dto.UserResponse
// @Failure     401 {object} dto.HTTPError
// @Failure     403 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /auth/me [get]
// @Router      /admin/auth/me [get]
func MeHandler(svc AccountService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := currentUserID(c)
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

// UpdateMeHandler 修改自己的名稱
// @Summary     修改自己的名稱
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     dto.UpdateMeRequest true "新名稱"
// @Success     200  {object} dto.UserResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /auth [put]
func UpdateMeHandler(svc AccountService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := currentUserID(c)
		if err != nil {
			return err
		}
		var req dto.UpdateMeRequest
		if err := handler.BindAndValidate(c, &req); err != nil {
			return err
		}
		u, err := svc.UpdateName(c.Request().Context(), id, req.Name)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.NewUserResponse(u))
	}
}

// UpdatePasswordMeHandler 修改自己的密碼
// @Summary     修改自己的密碼
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     dto.UpdatePasswordRequest true "新密碼"
// @Success     200  {object} dto.UserResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /auth/password [put]
// @Router      /admin/auth/password [put]
func UpdatePasswordMeHandler(svc AccountService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := currentUserID(c)
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
