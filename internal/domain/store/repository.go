package store

import (
	"context"
)

// Repository 店铺仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 便于Mock测试,不依赖具体数据库实现
type Repository interface {
	// FindWithPolicy 根据ID查找店铺,并在一次查询中带出配送策略
	// 店铺不存在时返回ErrStoreNotFound
	FindWithPolicy(ctx context.Context, id uint) (*Store, error)
}
