package database

import (
	"codementor_backend/internal/config"
	"context"
	"fmt"
	"log"
	"net"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// InitRedis 未启用时返回 (nil, nil)，调用方退化为进程内锁与内存吊销表
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opts := &redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}
	if cfg.PoolSize > 0 {
		opts.MinIdleConns = cfg.PoolSize / 10
	}
	rdb := redis.NewClient(opts)

	ctx := context.Background()
	if timeout := cfg.PingTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}

	log.Printf("Redis connection established (%s, db %d)", opts.Addr, cfg.DB)
	return rdb, nil
}
