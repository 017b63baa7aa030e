package handlers

import (
	"concentrate-quality/app/server/cache"
	"concentrate-quality/app/server/models"
	"context"

	"go.uber.org/zap"
)

type RecordStore interface {
	InsertUser(ctx context.Context, username, hashedPassword string) (*models.User, error)
	UpsertMonthRecords(ctx context.Context, month, year int, userID uint, records []models.QualityRecord, replace bool) error
	QueryMonthRecords(ctx context.Context, month, year int, userID uint) ([]models.QualityRecord, error)
}

type Gateway interface {
	Login(ctx context.Context, username, password string) (string, error)
	AuthenticateRequest(ctx context.Context, authHeader string) (*models.User, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

type Options struct {
	// 保存接口出错时仍返回 200 ，错误写在响应体中
	LegacySaveErrors bool
}

type App struct {
	l      *zap.Logger   // 日志
	store  RecordStore   // 数据库
	gw     Gateway       // 登录与请求认证
	hasher PasswordHasher
	cache  cache.Summary // 报表缓存
	opts   Options
}

func NewApp(l *zap.Logger, store RecordStore, gw Gateway, hasher PasswordHasher, c cache.Summary, opts Options) *App {
	if c == nil {
		c = cache.Disabled{}
	}
	return &App{
		l:      l,
		store:  store,
		gw:     gw,
		hasher: hasher,
		cache:  c,
		opts:   opts,
	}
}
