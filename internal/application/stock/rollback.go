package stock

import (
	"context"
	"log"

	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/product"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/stock"
	"github.com/Profect-4th-IRUM/product-service-sub000/pkg/metrics"
	"github.com/Profect-4th-IRUM/product-service-sub000/pkg/tracing"
)

// RollbackStockUseCase 库存回滚(补偿事务)用例
// 设计说明:
// 1. 在自己独立的事务中恢复库存:即使调用方更外层的流程之后失败,
//    这里的恢复也已经提交——补偿操作的生命周期与原事务无关
// 2. 不做店铺归属校验:回滚由订单明细列表发起,归属在下单时已校验
// 3. 回滚本身不幂等(重复调用会双倍恢复);
//    携带幂等键的请求由IdempotencyStore拦截重复提交,
//    不携带键时调用方自行保证"每个失败订单最多调用一次"
type RollbackStockUseCase struct {
	optionValueRepo product.OptionValueRepository
	txManager       TxManager
	idempotency     IdempotencyStore // 可选,nil时跳过幂等检查
	policy          RetryPolicy
}

// NewRollbackStockUseCase 创建库存回滚用例
func NewRollbackStockUseCase(
	optionValueRepo product.OptionValueRepository,
	txManager TxManager,
	idempotency IdempotencyStore,
	policy RetryPolicy,
) *RollbackStockUseCase {
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy()
	}
	return &RollbackStockUseCase{
		optionValueRepo: optionValueRepo,
		txManager:       txManager,
		idempotency:     idempotency,
		policy:          policy,
	}
}

// RollbackRequest 库存回滚请求DTO
// 不含店铺ID:回滚不按店铺划界(见用例说明)
type RollbackRequest struct {
	// IdempotencyKey 幂等键(通常是订单明细集合标识),可为空
	IdempotencyKey string
	Items          []stock.Item
}

// Execute 执行库存回滚
// 流程:幂等键占用 → (重试循环内)独立事务:锁定行 → 完整性校验 → 逐项恢复
func (uc *RollbackStockUseCase) Execute(ctx context.Context, req RollbackRequest) error {
	ctx, span := tracing.StartSpan(ctx, "stock", "stock.Rollback")
	defer span.End()

	quantities, ids, err := normalizeItems(req.Items)
	if err != nil {
		return err
	}

	// 幂等检查:同一个键只允许恢复一次
	if uc.idempotency != nil && req.IdempotencyKey != "" {
		acquired, err := uc.idempotency.Acquire(ctx, req.IdempotencyKey)
		if err != nil {
			return err
		}
		if !acquired {
			return ErrDuplicateRollback
		}
	}

	attempts, err := runWithRetry(ctx, uc.policy, func(ctx context.Context) error {
		return uc.restoreInTx(ctx, quantities, ids)
	})

	metrics.ObserveRollback(attempts, err)

	if err != nil {
		// 事务未提交:归还幂等键,允许调用方重新发起补偿
		if uc.idempotency != nil && req.IdempotencyKey != "" {
			if relErr := uc.idempotency.Release(ctx, req.IdempotencyKey); relErr != nil {
				log.Printf("幂等键归还失败: key=%s err=%v", req.IdempotencyKey, relErr)
			}
		}
		return err
	}
	return nil
}

// restoreInTx 在一个独立事务内恢复全部库存
// 与扣减使用相同的行锁纪律,避免与并发扣减竞争
func (uc *RollbackStockUseCase) restoreInTx(ctx context.Context, quantities map[uint]int, ids []uint) error {
	return uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		values, err := uc.optionValueRepo.LockByIDs(txCtx, ids)
		if err != nil {
			return err
		}

		if len(values) != len(ids) {
			return product.ErrOptionValueNotFound
		}

		for _, v := range values {
			if err := uc.optionValueRepo.RestoreStock(txCtx, v, quantities[v.ID]); err != nil {
				return err
			}
		}
		return nil
	})
}
