// config/redis.go
package config

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens the Redis connection used by the auth cache. A missing
// address or a failed ping returns nil and caching is disabled; the
// application still works, every auth lookup just hits the database.
func ConnectRedis(addr string) *redis.Client {
	if addr == "" {
		slog.Warn("REDIS_ADDR não definida, cache de autenticação desativado")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		slog.Error("Falha ao conectar ao Redis, cache desativado", "error", err)
		return nil
	}

	slog.Info("Conexão com Redis estabelecida")
	return rdb
}
