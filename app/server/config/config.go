package config

import "time"

type Config struct {
	System struct {
		IsProd                bool     // 是否为生产环境
		Listen                string   // 监听地址
		DBConnectionString    string   // Postgres 数据库的连接字符串
		DBMaxOpenConns        int      // 连接池最大连接数
		DBMaxIdleConns        int      // 连接池最大空闲连接数
		RedisConnectionString string   // Redis 连接字符串，留空则不启用报表缓存
		LogFile               string   // 日志文件路径，留空则只输出到标准输出
		CORSOrigins           []string // 允许跨域访问的前端地址
	}
	Security struct {
		SignatureSecretKey string        // 签名密钥，用于签发 JWT ，更新会导致旧有会话失效
		SignatureAlgorithm string        // JWT 签名算法（HS256 / HS384 / HS512）
		AccessTokenTTL     time.Duration // 访问令牌有效期
	}
	Data struct {
		InitialUsersFile    string        // 默认用户列表文件，留空则使用内置列表
		LegacySaveErrors    bool          // 保存接口是否以 200 + 错误信息的方式返回失败（兼容旧前端）
		ReplaceScopedByUser bool          // 替换模式是否只删除当前用户的数据
		SummaryCacheTTL     time.Duration // 报表缓存有效期
	}
}
