package cache

import (
	"context"
	"crypto/tls"
	"time"

	"cookieshop/internal/config"

	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

// Redisクライアントを作る。未設定・接続失敗はnil（レート制限は無効になる）
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnf("redis unavailable at %s: %v", cfg.Addr, err)
		_ = client.Close()
		return nil
	}
	return client
}
