package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/Profect-4th-IRUM/product-service-sub000/pkg/errors"
)

// IdempotencyStore 回滚幂等键存储
// 设计说明：
// 1. 补偿回滚可能被重复触发（MQ重投、调用方超时重试），
//    用SET NX抢占幂等键保证同一订单只恢复一次库存
// 2. Key设计：stock:rollback:{idempotency_key}
// 3. TTL防止键无限堆积（过期后重放会二次恢复，TTL应远大于重试窗口）
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore 创建幂等键存储
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

func rollbackKey(key string) string {
	return fmt.Sprintf("stock:rollback:%s", key)
}

// Acquire 抢占幂等键
// 返回true表示首次处理；false表示该键已被处理过（重复回滚）
func (s *IdempotencyStore) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, rollbackKey(key), time.Now().Unix(), s.ttl).Result()
	if err != nil {
		return false, apperrors.ErrRedisError.WithCause(err)
	}
	return ok, nil
}

// Release 释放幂等键
// 仅在回滚执行失败时调用，允许调用方稍后重试同一个键
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, rollbackKey(key)).Err(); err != nil {
		return apperrors.ErrRedisError.WithCause(err)
	}
	return nil
}
