// File: internal/handler/users/list_users.go
package users

import (
	"net/http"

	"accounts/internal/dto"

	"github.com/labstack/echo/v4"
)

// bindListQuery 未帶的參數保留預設值；is_deleted 只有出現時才過濾
func bindListQuery(c echo.Context) (dto.ListUsersQuery, error) {
	q := dto.DefaultListUsersQuery()
	b := echo.QueryParamsBinder(c).
		String("search_text", &q.SearchText).
		String("role", &q.Role).
		Int("page", &q.Page).
		Int("page_size", &q.PageSize).
		String("sort", &q.Sort)
	if c.QueryParams().Has("is_deleted") {
		var deleted bool
		b = b.Bool("is_deleted", &deleted)
		q.IsDeleted = &deleted
	}
	if err := b.BindError(); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return q, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return q, nil
}

// ListUsersHandler 依條件查詢使用者並分頁
// @Summary     List users
// @Description 依 search_text (名稱或 Email 子字串，不分大小寫)、role、is_deleted 過濾，依 created_at 排序
// @Tags        users
// @Produce     json
// @Param       search_text query    string false "名稱或 Email 關鍵字"
// @Param       role        query    string false "角色" Enums(user, admin)
// @Param       is_deleted  query    bool   false "是否已停用"
// @Param       page        query    int    false "頁碼" minimum(1) default(1)
// @Param       page_size   query    int    false "每頁筆數" minimum(1) maximum(100) default(10)
// @Param       sort        query    string false "排序" Enums(asc, desc) default(desc)
// @Success     200         {object} dto.UserPageResponse
// @Failure     400         {object} dto.HTTPError
// @Failure     401         {object} dto.HTTPError
// @Failure     403         {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /admin/users [get]
func ListUsersHandler(svc AccountService) echo.HandlerFunc {
	return func(c echo.Context) error {
		q, err := bindListQuery(c)
		if err != nil {
			return err
		}
		page, err := svc.ListAccounts(c.Request().Context(), q.Filter(), q.Paging())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.NewUserPageResponse(page))
	}
}
