package product

import (
	"context"
)

// OptionValueRepository 选项值仓储接口
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现(依赖倒置)
// 2. LockByIDs是库存变更的唯一入口:行锁 + 有界等待
// 3. 两个变更操作都必须在持有行锁的事务内调用
type OptionValueRepository interface {
	// FindByIDs 普通查询(不加锁),用于只读的库存查询
	// 结果按ID升序;缺失的ID直接缺席,不报错
	FindByIDs(ctx context.Context, ids []uint) ([]*OptionValue, error)

	// LockByIDs 锁定查询:对每个选项值行加排他锁(SELECT FOR UPDATE)
	// 1. 等待行锁有上界(配置,默认3秒),超时返回ErrLockTimeout
	// 2. 按ID升序加锁,降低与其他多行事务的死锁概率
	// 3. 缺失的ID直接缺席,由调用方比对数量判定ErrOptionValueNotFound
	LockByIDs(ctx context.Context, ids []uint) ([]*OptionValue, error)

	// DecrementStock 扣减库存(带守卫的原子UPDATE)
	// WHERE同时校验并发戳和库存充足;未命中任何行返回ErrStockConflict
	// (行锁已持有的前提下戳失效只能来自瞬时冲突)
	DecrementStock(ctx context.Context, value *OptionValue, quantity int) error

	// RestoreStock 恢复库存(补偿路径,同样的守卫UPDATE)
	RestoreStock(ctx context.Context, value *OptionValue, quantity int) error
}

// DiscountRepository 折扣仓储接口(本子系统只读)
type DiscountRepository interface {
	// AmountsByProductIDs 按商品ID列表查询折扣金额
	// 返回商品ID → 折扣金额的映射;没有折扣的商品不在映射中(调用方按0处理)
	AmountsByProductIDs(ctx context.Context, productIDs []uint) (map[uint]int64, error)
}
