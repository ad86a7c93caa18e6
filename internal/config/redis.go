package config

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig describes the optional Redis server used for the response
// cache and the login rate limiter. REDIS_ADDR wins over REDIS_HOST/PORT.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	TLS      bool   `env:"REDIS_TLS" envDefault:"false"`
}

// Address resolves the host:port to dial. An empty result means Redis is
// not configured.
func (r RedisConfig) Address() string {
	if r.Addr != "" {
		return r.Addr
	}
	if r.Host != "" {
		return r.Host + ":" + r.Port
	}
	return ""
}

// NewRedisClient connects to Redis and pings it. It returns nil when Redis
// is not configured or unreachable; callers degrade by disabling caching
// and falling back to the in-memory rate limiter.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	addr := cfg.Address()
	if addr == "" {
		return nil
	}
	var tlsConf *tls.Config
	if cfg.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
