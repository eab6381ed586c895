package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DBDriver    string // postgres / mysql
	DatabaseURL string // あれば最優先

	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	MySQLDSN string

	JWTSecret string        // JWT署名シークレット
	JWTTTL    time.Duration // アクセストークンの有効期限

	UploadDir     string // 商品画像の保存先
	MaxImageBytes int64

	GoEnv string // dev/prod

	Redis     RedisConfig
	RateLimit RateLimitConfig

	RabbitMQURL      string // 空なら注文イベントは送らない
	OrderEventsQueue string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// .envがあれば読む（無くてもよい）
func LoadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiOr("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	redisDB, err := atoiOr("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	jwtTTL, err := durationOr("JWT_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	maxImage, err := atoiOr("MAX_IMAGE_BYTES", 5*1024*1024)
	if err != nil {
		return Config{}, err
	}
	rl, err := loadRateLimit()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: envStr("PORT", "8080"),

		DBDriver:    strings.ToLower(envStr("DB_DRIVER", "postgres")),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		PostgresUser:     envStr("POSTGRES_USER", "postgres"),
		PostgresPassword: envStr("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       envStr("POSTGRES_DB", "cookieshop"),
		PostgresHost:     envStr("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  envStr("POSTGRES_SSLMODE", "disable"),

		MySQLDSN: os.Getenv("MYSQL_DSN"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTTTL:    jwtTTL,

		UploadDir:     envStr("UPLOAD_DIR", "uploads/images"),
		MaxImageBytes: int64(maxImage),

		GoEnv: envStr("GO_ENV", "dev"),

		Redis: RedisConfig{
			Addr:     redisAddr(),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			TLS:      envBool("REDIS_TLS", false),
		},
		RateLimit: rl,

		RabbitMQURL:      os.Getenv("RABBITMQ_URL"),
		OrderEventsQueue: envStr("ORDER_EVENTS_QUEUE", "orders.events"),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.DBDriver {
	case "postgres":
	case "mysql":
		if cfg.MySQLDSN == "" && cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("MYSQL_DSN is required when DB_DRIVER=mysql")
		}
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres or mysql")
	}
	if cfg.MaxImageBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_IMAGE_BYTES must be positive")
	}

	return cfg, nil
}

// ":8080"形式のアドレス
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func loadRateLimit() (RateLimitConfig, error) {
	capacity, err := atoiOr("RATE_LIMIT_CAPACITY", 20)
	if err != nil {
		return RateLimitConfig{}, err
	}
	refill, err := atoiOr("RATE_LIMIT_REFILL_TOKENS", 1)
	if err != nil {
		return RateLimitConfig{}, err
	}
	interval, err := durationOr("RATE_LIMIT_REFILL_INTERVAL", 3*time.Second)
	if err != nil {
		return RateLimitConfig{}, err
	}
	ttl, err := durationOr("RATE_LIMIT_TTL", 10*time.Minute)
	if err != nil {
		return RateLimitConfig{}, err
	}

	rl := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       capacity,
		RefillTokens:   refill,
		RefillInterval: interval,
		TTL:            ttl,
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if rl.Capacity < 1 {
		rl.Capacity = 1
	}
	if rl.RefillTokens < 1 {
		rl.RefillTokens = 1
	}
	if rl.RefillInterval <= 0 {
		rl.RefillInterval = time.Second
	}
	if minTTL := 5 * rl.RefillInterval; rl.TTL < minTTL {
		rl.TTL = minTTL
	}
	return rl, nil
}

func redisAddr() string {
	host := os.Getenv("REDIS_HOST")
	port := os.Getenv("REDIS_PORT")
	if host != "" && port != "" {
		return host + ":" + port
	}
	return os.Getenv("REDIS_ADDR")
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	default:
		return def
	}
}

func atoiOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}
