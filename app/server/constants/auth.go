package constants

import "time"

const (
	DefaultTokenTTL = 15 * time.Minute // 调用方未指定有效期时使用
	TokenType       = "bearer"
	DevSecretKey    = "secret-key"
)

const (
	ContextKeyUser = "user" // echo.Context 中保存当前用户的 key
)
