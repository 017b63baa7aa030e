package inits

import (
	"concentrate-quality/app/server/config"
	"concentrate-quality/app/server/constants"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func Config() (*config.Config, error) {
	var cfg config.Config

	// 手动配置映射
	{
		mode, exist := os.LookupEnv("MODE")
		cfg.System.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if listen, exist := os.LookupEnv("LISTEN"); !exist {
		cfg.System.Listen = ":8000" // 默认监听地址
	} else {
		cfg.System.Listen = listen
	}

	if dbconn, exist := os.LookupEnv("DATABASE_URL"); exist {
		cfg.System.DBConnectionString = dbconn
	} else {
		// 没有完整连接串时，按分项拼接
		cfg.System.DBConnectionString = fmt.Sprintf(
			"postgresql://%s:%s@%s/%s",
			envOr("POSTGRES_USER", "user"),
			envOr("POSTGRES_PASSWORD", "password"),
			envOr("POSTGRES_HOST", "localhost"),
			envOr("POSTGRES_DB", "postgres"),
		)
	}

	var err error
	if cfg.System.DBMaxOpenConns, err = envInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, err
	}
	if cfg.System.DBMaxIdleConns, err = envInt("DB_MAX_IDLE_CONNS", 25); err != nil {
		return nil, err
	}

	cfg.System.RedisConnectionString = os.Getenv("REDIS_CONN") // 可选
	cfg.System.LogFile = envOr("LOG_FILE", "logs/concentrate_api.log")

	if origins, exist := os.LookupEnv("CORS_ORIGINS"); !exist {
		cfg.System.CORSOrigins = constants.DefaultCORSOrigins
	} else {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.System.CORSOrigins = append(cfg.System.CORSOrigins, origin)
			}
		}
	}

	if sigsk, exist := os.LookupEnv("SECRET_KEY"); !exist || sigsk == "" {
		if cfg.System.IsProd {
			return nil, fmt.Errorf("SECRET_KEY environment variable not set")
		}
		cfg.Security.SignatureSecretKey = constants.DevSecretKey // 仅用于开发环境
	} else {
		cfg.Security.SignatureSecretKey = sigsk
	}

	cfg.Security.SignatureAlgorithm = envOr("ALGORITHM", "HS256")

	if minutes, err := envInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30); err != nil {
		return nil, err
	} else if minutes <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES should be positive")
	} else {
		cfg.Security.AccessTokenTTL = time.Duration(minutes) * time.Minute
	}

	cfg.Data.InitialUsersFile = os.Getenv("INITIAL_USERS_FILE")

	if legacy, exist := os.LookupEnv("LEGACY_SAVE_ERRORS"); !exist {
		cfg.Data.LegacySaveErrors = true // 默认保持旧接口行为
	} else if b, err := strconv.ParseBool(legacy); err != nil {
		return nil, fmt.Errorf("LEGACY_SAVE_ERRORS should be a boolean")
	} else {
		cfg.Data.LegacySaveErrors = b
	}

	switch scope := strings.ToLower(envOr("REPLACE_SCOPE", "period")); scope {
	case "period":
		cfg.Data.ReplaceScopedByUser = false
	case "user":
		cfg.Data.ReplaceScopedByUser = true
	default:
		return nil, fmt.Errorf("REPLACE_SCOPE should be either period or user, got %q", scope)
	}

	if ttlStr, exist := os.LookupEnv("SUMMARY_CACHE_TTL"); !exist {
		cfg.Data.SummaryCacheTTL = constants.CacheExpireSummary
	} else if ttl, err := time.ParseDuration(ttlStr); err != nil {
		return nil, fmt.Errorf("SUMMARY_CACHE_TTL should be a valid duration")
	} else {
		cfg.Data.SummaryCacheTTL = ttl
	}

	return &cfg, nil
}

func envOr(key, defaultVal string) string {
	if value, exist := os.LookupEnv(key); exist && value != "" {
		return value
	}
	return defaultVal
}

func envInt(key string, defaultVal int) (int, error) {
	value, exist := os.LookupEnv(key)
	if !exist || value == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s should be an integer", key)
	}
	return i, nil
}
