package stock

import (
	"context"
	"sort"

	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/product"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/stock"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/store"
	apperrors "github.com/Profect-4th-IRUM/product-service-sub000/pkg/errors"
	"github.com/Profect-4th-IRUM/product-service-sub000/pkg/tracing"
)

// DecrementStockUseCase 库存扣减用例
// 这是整个子系统的核心:一次数据库事务内完成
// 店铺加载 → 选项值行锁加载 → 校验 → 扣减 → 折扣聚合 → 响应组装
type DecrementStockUseCase struct {
	storeRepo       store.Repository
	optionValueRepo product.OptionValueRepository
	discountRepo    product.DiscountRepository
	txManager       TxManager
}

// NewDecrementStockUseCase 创建库存扣减用例
func NewDecrementStockUseCase(
	storeRepo store.Repository,
	optionValueRepo product.OptionValueRepository,
	discountRepo product.DiscountRepository,
	txManager TxManager,
) *DecrementStockUseCase {
	return &DecrementStockUseCase{
		storeRepo:       storeRepo,
		optionValueRepo: optionValueRepo,
		discountRepo:    discountRepo,
		txManager:       txManager,
	}
}

// DecrementRequest 库存扣减请求DTO
type DecrementRequest struct {
	StoreID uint         // 授权本次扣减的店铺ID
	Items   []stock.Item // (选项值ID, 数量)列表,数量必须>0
}

// Execute 执行库存扣减
//
// 防超卖的完整流程(悲观锁):
// 1. 开启数据库事务
// 2. 加载店铺(带配送策略),不存在则失败
// 3. SELECT FOR UPDATE按ID升序锁定全部选项值行(等待上界3秒)
// 4. 校验:每个ID都存在、商品归属该店铺、库存充足
//    —— 校验全部通过之前不做任何变更,第k项失败时前k-1项保持未动
// 5. 逐项扣减(守卫UPDATE,并发戳递增)
// 6. 查询涉及商品的折扣,组装响应
// 7. 提交事务(失败则整体回滚)
//
// 错误全部是终态;唯一的瞬时错误ErrStockConflict由编排层重试
func (uc *DecrementStockUseCase) Execute(ctx context.Context, req DecrementRequest) (*stock.UpdateResponse, error) {
	// 每次重试尝试产生一个子Span,锁等待耗时在Trace上直接可见
	ctx, span := tracing.StartSpan(ctx, "stock", "stock.DecrementAttempt")
	defer span.End()

	quantities, ids, err := normalizeItems(req.Items)
	if err != nil {
		return nil, err
	}

	var result *stock.UpdateResponse
	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		// 步骤1:加载店铺与配送策略(一次查询)
		st, err := uc.storeRepo.FindWithPolicy(txCtx, req.StoreID)
		if err != nil {
			return err
		}

		// 步骤2:锁定全部选项值行
		// 两个并发请求touching同一选项值在这里被串行化:
		// 后到者要么等待(上界3秒),要么在步骤3观察到库存不足
		values, err := uc.optionValueRepo.LockByIDs(txCtx, ids)
		if err != nil {
			return err
		}

		// 步骤3:完整性校验(返回集合小于请求集合 → 有选项值不存在)
		if len(values) != len(ids) {
			return product.ErrOptionValueNotFound
		}

		// 步骤4:逐项校验店铺归属和库存充足
		// 必须在任何变更之前完成,保证失败时事务内零变更
		for _, v := range values {
			if !v.BelongsToStore(req.StoreID) {
				return product.ErrProductNotInStore
			}
			if !v.CanDecrease(quantities[v.ID]) {
				return product.ErrOutOfStock
			}
		}

		// 步骤5:应用全部扣减
		for _, v := range values {
			if err := uc.optionValueRepo.DecrementStock(txCtx, v, quantities[v.ID]); err != nil {
				return err
			}
		}

		// 步骤6:折扣聚合(商品ID → 折扣金额,缺失按0)
		discounts, err := uc.discountRepo.AmountsByProductIDs(txCtx, distinctProductIDs(values))
		if err != nil {
			return err
		}

		// 步骤7:组装响应(纯映射,在所有数据库操作之后)
		result = stock.AssembleUpdateResponse(st, values, discounts)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// normalizeItems 校验并归一化请求项
// 同一选项值出现多次时合并数量;返回去重后按升序排列的ID列表
func normalizeItems(items []stock.Item) (map[uint]int, []uint, error) {
	if len(items) == 0 {
		return nil, nil, apperrors.ErrInvalidParams
	}

	quantities := make(map[uint]int, len(items))
	for _, item := range items {
		if item.OptionValueID == 0 || item.Quantity <= 0 {
			return nil, nil, product.ErrInvalidQuantity
		}
		quantities[item.OptionValueID] += item.Quantity
	}

	ids := make([]uint, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	// 固定加锁顺序,降低死锁概率
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return quantities, ids, nil
}

// distinctProductIDs 提取去重后的商品ID列表(折扣查询用)
func distinctProductIDs(values []*product.OptionValue) []uint {
	seen := make(map[uint]struct{}, len(values))
	ids := make([]uint, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v.Product.ID]; ok {
			continue
		}
		seen[v.Product.ID] = struct{}{}
		ids = append(ids, v.Product.ID)
	}
	return ids
}
