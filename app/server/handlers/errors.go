package handlers

import (
	"concentrate-quality/app/server/auth"
	"concentrate-quality/app/server/store"
	"concentrate-quality/app/server/types"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var ErrNoDataForPeriod = errors.New("no data for the requested period")

// ValidationError 请求参数或请求体不合法
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (a *App) er(c echo.Context, statusCode int, detail string) error {
	if statusCode == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	if detail == "" {
		detail = http.StatusText(statusCode)
	}
	return c.JSON(statusCode, &types.ErrorDetail{
		Detail: detail,
	})
}

// httpError 把业务错误映射为 HTTP 状态码
func (a *App) httpError(c echo.Context, err error) error {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return a.er(c, http.StatusUnprocessableEntity, ve.Error())
	case errors.Is(err, auth.ErrWrongCredentials):
		return a.er(c, http.StatusUnauthorized, "Incorrect username or password")
	case errors.Is(err, auth.ErrMissingOrMalformedHeader):
		return a.er(c, http.StatusUnauthorized, "Invalid authentication header")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return a.er(c, http.StatusUnauthorized, "Could not validate credentials")
	case errors.Is(err, store.ErrDuplicateUser):
		return a.er(c, http.StatusBadRequest, "Username already registered")
	case errors.Is(err, ErrNoDataForPeriod):
		return a.er(c, http.StatusNotFound, "No data for the requested period")
	default:
		a.l.Error("unhandled error", zap.String("URI", c.Request().RequestURI), zap.Error(err))
		return a.er(c, http.StatusInternalServerError, "")
	}
}

// saveError 兼容旧客户端，保存失败时返回 200 并把错误写进响应体
func (a *App) saveError(c echo.Context, err error) error {
	var ve *ValidationError
	if !a.opts.LegacySaveErrors || errors.As(err, &ve) {
		return a.httpError(c, err)
	}
	return c.JSON(http.StatusOK, &types.SaveStatus{
		Status:  "error",
		Message: err.Error(),
	})
}
