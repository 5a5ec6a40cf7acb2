package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Tracing   TracingConfig `mapstructure:"tracing"`
	Redis     RedisConfig
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Adaptive  AdaptiveConfig  `mapstructure:"adaptive"`
	XAPI      XAPIConfig      `mapstructure:"xapi"`
	Log       LogConfig       `mapstructure:"log"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// AdaptiveConfig 推荐引擎相关参数
type AdaptiveConfig struct {
	HistoryWindow    int `mapstructure:"history_window"`
	RefreshWorkers   int `mapstructure:"refresh_workers"`
	RefreshQueueSize int `mapstructure:"refresh_queue_size"`
	CacheTTLMinutes  int `mapstructure:"cache_ttl_minutes"`
}

func (c AdaptiveConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// XAPIConfig Learning Record Store 上报配置
type XAPIConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	ActivityBaseURL string `mapstructure:"activity_base_url"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Version         string `mapstructure:"version"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"`
	BreakerFailures uint32 `mapstructure:"breaker_failures"`
}

// LogConfig 日志输出与轮转，Level 为空时按 server.mode 推断
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	Console    bool   `mapstructure:"console"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("rate_limit.max_requests", 1000)
	v.SetDefault("rate_limit.window_minutes", 1)

	v.SetDefault("adaptive.history_window", 20)
	v.SetDefault("adaptive.refresh_workers", 2)
	v.SetDefault("adaptive.refresh_queue_size", 256)
	v.SetDefault("adaptive.cache_ttl_minutes", 60)

	v.SetDefault("xapi.enabled", false)
	v.SetDefault("xapi.endpoint", "http://localhost:8080/xapi/statements")
	v.SetDefault("xapi.activity_base_url", "http://localhost:8080/activities")
	v.SetDefault("xapi.version", "1.0.3")
	v.SetDefault("xapi.timeout_seconds", 5)
	v.SetDefault("xapi.breaker_failures", 5)

	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.console", true)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("ADAPTIVE_EDU")
	v.AutomaticEnv()

	setDefaults(v)

	// Database
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	v.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// xAPI
	v.BindEnv("xapi.enabled", "XAPI_ENABLED")
	v.BindEnv("xapi.endpoint", "XAPI_ENDPOINT")
	v.BindEnv("xapi.username", "XAPI_USERNAME")
	v.BindEnv("xapi.password", "XAPI_PASSWORD")
	v.BindEnv("xapi.version", "XAPI_VERSION")

	// Log
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.file", "LOG_FILE")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Adaptive.HistoryWindow <= 0 {
		return nil, fmt.Errorf("adaptive.history_window must be positive, got %d", cfg.Adaptive.HistoryWindow)
	}

	return &cfg, nil
}
