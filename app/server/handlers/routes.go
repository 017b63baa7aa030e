package handlers

import (
	"concentrate-quality/app/server/middlewares"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RegisterHandlers 绑定全部路由
func RegisterHandlers(e *echo.Echo, a *App) {
	// 公开接口
	e.GET("/healthz", a.HealthCheck)
	e.POST("/token", a.AuthLogin)
	e.POST("/users/", a.UserCreate)

	// 需要认证的接口
	authed := middlewares.BearerAuth(a.gw, a.l.With(zap.String("scope", "auth")), a.httpError)
	authedSave := middlewares.BearerAuth(a.gw, a.l.With(zap.String("scope", "auth")), a.saveError)

	g := e.Group("/api/concentrate-quality")
	g.POST("", a.QualitySave, authedSave)
	g.GET("", a.QualityGet, authed)
	g.GET("/summary", a.QualitySummary, authed)
}
