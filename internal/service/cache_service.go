package service

import (
	"context"
	"encoding/json"
	"time"

	"icd201_backend/internal/planner"
	"icd201_backend/internal/util"
	"icd201_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	cacheKeyWeeks          = "icd201:weeks"
	cacheKeyConflictPrefix = "icd201:conflicts:"
)

// Change 数据变更通知
type Change struct {
	Entity string    `json:"entity"`
	Action string    `json:"action"`
	ID     string    `json:"id"`
	At     time.Time `json:"at"`
}

// CacheService 基于 Redis 的视图缓存和变更广播。Client 为 nil 时所有操作都是空操作
type CacheService struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewCacheService(client *redis.Client, ttl time.Duration) *CacheService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CacheService{Client: client, TTL: ttl}
}

func (s *CacheService) Enabled() bool {
	return s != nil && s.Client != nil
}

// GetJSON 命中时解码到 dst 并返回 true
func (s *CacheService) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	if !s.Enabled() {
		return false
	}
	raw, err := s.Client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.Log.Warn("Cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *CacheService) SetJSON(ctx context.Context, key string, v interface{}) {
	if !s.Enabled() {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		logger.Log.Warn("Cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.Client.Set(ctx, key, raw, s.TTL).Err(); err != nil {
		logger.Log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateViews 清除周视图和所有策略下的冲突缓存
func (s *CacheService) InvalidateViews(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	keys := []string{cacheKeyWeeks}
	for _, p := range []string{planner.PolicyCount, planner.PolicyHours, planner.PolicyExclusive} {
		keys = append(keys, cacheKeyConflictPrefix+p)
	}
	if err := s.Client.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("Cache invalidation failed", zap.Error(err))
	}
}

// Notify 清除缓存并广播变更
func (s *CacheService) Notify(ctx context.Context, entity, action, id string) {
	if !s.Enabled() {
		return
	}
	s.InvalidateViews(ctx)
	raw, err := json.Marshal(Change{Entity: entity, Action: action, ID: id, At: time.Now()})
	if err != nil {
		return
	}
	if err := s.Client.Publish(ctx, util.ChangeChannel, raw).Err(); err != nil {
		logger.Log.Warn("Change publish failed", zap.Error(err))
	}
}

// Subscribe 订阅变更频道，ctx 取消时关闭
func (s *CacheService) Subscribe(ctx context.Context, handler func(Change)) {
	if !s.Enabled() {
		return
	}
	sub := s.Client.Subscribe(ctx, util.ChangeChannel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var c Change
				if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
					continue
				}
				handler(c)
			}
		}
	}()
}
