package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"FinAI_Community/internal/pkg"
	"FinAI_Community/internal/repository/redis"
)

type Config struct {
	Env      string
	Port     string
	LogLevel string
	CORS     string

	MySQLDSN string
	Redis    redis.Config
	JWT      JWTConfig
	AdminKey string

	Kafka  pkg.KafkaConfig
	SMTP   pkg.SMTPConfig
	OpenAI pkg.LLMConfig

	News        NewsConfig
	Application ApplicationConfig
	Realtime    RealtimeConfig

	SnowflakeNode int64
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
}

type NewsConfig struct {
	URLs     []string
	CacheTTL time.Duration
}

type ApplicationConfig struct {
	// 已有结论的申请能否再次改判（申诉场景）
	AllowRetransition bool
}

type RealtimeConfig struct {
	RatePerSec float64
	Burst      int
}

var defaultNewsURLs = []string{
	"https://economictimes.indiatimes.com/topic/rural",
	"https://economictimes.indiatimes.com/topic/rural-development-india",
	"https://economictimes.indiatimes.com/topic/financial-empowerment-of-rural",
}

// Load 开发环境下先加载 .env，再读取环境变量
func Load() Config {
	if getEnv("APP_ENV", "development") == "development" {
		_ = godotenv.Load()
	}

	return Config{
		Env:      getEnv("APP_ENV", "development"),
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		CORS:     getEnv("CORS_ORIGIN", "*"),
		MySQLDSN: getEnv("MYSQL_DSN", "user:password@tcp(127.0.0.1:3306)/finai?charset=utf8mb4&parseTime=True&loc=Local"),
		Redis: redis.Config{
			Addr:         getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvInt("REDIS_DB", 0),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			IOTimeout:    getEnvDuration("REDIS_IO_TIMEOUT", 2*time.Second),
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", ""),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", ""),
		},
		AdminKey: getEnv("ADMIN_API_KEY", ""),
		Kafka: pkg.KafkaConfig{
			Brokers: getEnvList("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", "application-events"),
		},
		SMTP: pkg.SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
		OpenAI: pkg.LLMConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		News: NewsConfig{
			URLs:     getEnvList("NEWS_URLS", defaultNewsURLs),
			CacheTTL: getEnvDuration("NEWS_CACHE_TTL", 30*time.Minute),
		},
		Application: ApplicationConfig{
			AllowRetransition: getEnvBool("APPLICATION_ALLOW_RETRANSITION", true),
		},
		Realtime: RealtimeConfig{
			RatePerSec: getEnvFloat("WS_RATE_PER_SEC", 5),
			Burst:      getEnvInt("WS_BURST", 10),
		},
		SnowflakeNode: int64(getEnvInt("SNOWFLAKE_NODE", 1)),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
