package database

import (
	"context"
	"fmt"
	"time"

	"icd201_backend/internal/config"
	applog "icd201_backend/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// InitRedis 连接缓存，最多重试 3 次。失败时调用方应关闭缓存继续运行
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    10,
		DialTimeout: 2 * time.Second,
	})

	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return rdb.Ping(ctx).Err()
	}
	retry := backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), 3)
	notify := func(err error, wait time.Duration) {
		applog.Log.Debug("Redis ping failed, retrying", zap.Error(err), zap.Duration("wait", wait))
	}
	if err := backoff.RetryNotify(ping, retry, notify); err != nil {
		rdb.Close()
		return nil, err
	}

	applog.Log.Info("Redis connection established", zap.String("addr", rdb.Options().Addr))
	return rdb, nil
}
