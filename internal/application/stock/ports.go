package stock

import (
	"context"

	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/stock"
)

// TxManager 事务边界抽象
// 由infrastructure/persistence/mysql.TxManager实现;
// 应用层只依赖接口,便于用内存实现做单元测试
type TxManager interface {
	// Transaction 在一个数据库事务内执行fn
	// fn返回error时回滚,返回nil时提交
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// IdempotencyStore 回滚幂等键存储
// 设计说明:
// 1. 回滚本身不幂等(重复调用会双倍恢复库存),
//    调用方携带幂等键(订单明细集合ID)时由这里拦截重复提交
// 2. Redis SET NX实现;键带TTL,过期后允许重新提交(人工对账场景)
type IdempotencyStore interface {
	// Acquire 尝试占用幂等键;返回false表示该键已被处理过
	Acquire(ctx context.Context, key string) (bool, error)

	// Release 释放幂等键(回滚事务失败时归还,允许调用方重试)
	Release(ctx context.Context, key string) error
}

// EventPublisher 库存事件发布端口
// 发布失败绝不传播给调用方:数据库提交才是事实源,事件只是通知
type EventPublisher interface {
	// PublishStockUpdated 库存扣减成功后发布stock.updated事件
	PublishStockUpdated(ctx context.Context, resp *stock.UpdateResponse) error
}
