package handlers

import (
	"concentrate-quality/app/server/auth"
	"concentrate-quality/app/server/constants"
	"concentrate-quality/app/server/types"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthLogin 表单登录，签发访问令牌
func (a *App) AuthLogin(c echo.Context) error {
	rctx := c.Request().Context()

	// 没有写用户名或密码
	username, password := c.FormValue("username"), c.FormValue("password")
	if username == "" {
		return a.httpError(c, invalid("username", "field required"))
	}
	if password == "" {
		return a.httpError(c, invalid("password", "field required"))
	}

	token, err := a.gw.Login(rctx, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrWrongCredentials) {
			a.l.Warn("failed to authenticate user", zap.String("username", username))
		}
		return a.httpError(c, err)
	}

	a.l.Info("user logged in", zap.String("username", username))

	// 返回
	return c.JSON(http.StatusOK, &types.TokenResponse{
		AccessToken: token,
		TokenType:   constants.TokenType,
	})
}

// UserCreate 注册新用户
func (a *App) UserCreate(c echo.Context) error {
	rctx := c.Request().Context()

	// 绑定请求体
	var req types.UserCreate
	if err := c.Bind(&req); err != nil {
		a.l.Warn("failed to bind request", zap.Error(err))
		return a.httpError(c, invalid("body", "invalid JSON body"))
	}
	if req.Username == "" {
		return a.httpError(c, invalid("username", "field required"))
	}
	if req.Password == "" {
		return a.httpError(c, invalid("password", "field required"))
	}

	// 处理密码
	passwordHash, err := a.hasher.Hash(req.Password)
	if err != nil {
		a.l.Error("failed to hash password", zap.Error(err))
		return a.httpError(c, err)
	}

	// 创建用户
	user, err := a.store.InsertUser(rctx, req.Username, passwordHash)
	if err != nil {
		a.l.Warn("failed to create user", zap.String("username", req.Username), zap.Error(err))
		return a.httpError(c, err)
	}

	a.l.Info("user created", zap.String("username", user.Username), zap.Uint("id", user.ID))

	return c.JSON(http.StatusOK, &types.UserInfo{
		ID:       user.ID,
		Username: user.Username,
		IsActive: user.IsActive,
	})
}
