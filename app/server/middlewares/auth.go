package middlewares

import (
	"concentrate-quality/app/server/constants"
	"concentrate-quality/app/server/models"
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Authenticator interface {
	AuthenticateRequest(ctx context.Context, authHeader string) (*models.User, error)
}

// BearerAuth 验证 Authorization 头，并把当前用户放进 context ，
// 失败时交给 fail 决定如何响应
func BearerAuth(gw Authenticator, l *zap.Logger, fail func(c echo.Context, err error) error) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rctx := c.Request().Context()

			user, err := gw.AuthenticateRequest(rctx, c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				l.Warn("failed to authenticate request", zap.String("URI", c.Request().RequestURI), zap.Error(err))
				return fail(c, err)
			}

			// 设置 context
			c.Set(constants.ContextKeyUser, user)

			// 继续处理
			return next(c)
		}
	}
}

// CurrentUser 取出 BearerAuth 放入的用户
func CurrentUser(c echo.Context) (*models.User, bool) {
	user, ok := c.Get(constants.ContextKeyUser).(*models.User)
	return user, ok && user != nil
}
