package main

import (
	"concentrate-quality/app/server/apidocs"
	"concentrate-quality/app/server/auth"
	"concentrate-quality/app/server/cache"
	"concentrate-quality/app/server/handlers"
	"concentrate-quality/app/server/inits"
	"concentrate-quality/app/server/jwt"
	"concentrate-quality/app/server/store"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// 初始化配置
	cfg, err := inits.Config()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	// 初始化日志
	l, err := inits.Logger(!cfg.System.IsProd, cfg.System.LogFile)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}
	defer func() { _ = l.Sync() }()

	// 切换日志系统
	l.Debug("logger initialized")

	// 初始化数据库连接
	db, err := inits.DB(cfg.System.DBConnectionString, inits.DBOptions{
		MaxOpenConns: cfg.System.DBMaxOpenConns,
		MaxIdleConns: cfg.System.DBMaxIdleConns,
		Debug:        !cfg.System.IsProd,
	})
	if err != nil {
		l.Fatal("error initializing DB connection", zap.Error(err))
	}

	st := store.New(db, store.WithUserScopedReplace(cfg.Data.ReplaceScopedByUser))

	startCtx, cancelStart := context.WithTimeout(context.Background(), time.Minute)
	if err = st.CreateSchema(startCtx); err != nil {
		l.Fatal("error migrating database", zap.Error(err))
	}

	// 初始化 redis 连接，未配置时不启用缓存
	var summaryCache cache.Summary = cache.Disabled{}
	rdb, err := inits.Redis(cfg.System.RedisConnectionString)
	if err != nil {
		l.Fatal("error initializing Redis connection", zap.Error(err))
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		summaryCache = cache.NewRedisSummary(rdb, cfg.Data.SummaryCacheTTL)
	} else {
		l.Info("redis not configured, summary cache disabled")
	}

	// 初始化 JWT
	j, err := jwt.New(cfg.Security.SignatureSecretKey, cfg.Security.SignatureAlgorithm)
	if err != nil {
		l.Fatal("error initializing JWT", zap.Error(err))
	}

	hasher := auth.NewHasher(nil)
	gw := auth.NewGateway(st, hasher, j, cfg.Security.AccessTokenTTL)

	// 写入默认用户
	if err = inits.SeedUsers(startCtx, l, st, hasher, cfg.Data.InitialUsersFile); err != nil {
		l.Fatal("error seeding initial users", zap.Error(err))
	}
	cancelStart()

	// 准备 handler app
	handlerApp := handlers.NewApp(l, st, gw, hasher, summaryCache, handlers.Options{
		LegacySaveErrors: cfg.Data.LegacySaveErrors,
	})

	// 准备 echo 服务
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			l.Info("request",
				zap.String("method", v.Method),
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("requestID", v.RequestID),
			)

			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.System.CORSOrigins,
		AllowCredentials: true,
	}))

	// 绑定 echo 服务
	handlers.RegisterHandlers(e, handlerApp)

	// 添加 API 文档
	if !cfg.System.IsProd {
		if docJson, err := apidocs.Document(version).MarshalJSON(); err != nil {
			l.Error("error initializing API document", zap.Error(err))
		} else {
			e.Pre(apidocs.Doc("/docs", docJson, apidocs.WithTitle("Concentrate Quality API")))
		}
	}

	// 启动 echo 服务
	go func() {
		if err := e.Start(cfg.System.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	l.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		l.Error("failed to shut down gracefully", zap.Error(err))
	}
}
