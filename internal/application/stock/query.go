package stock

import (
	"context"

	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/product"
)

// GetStockUseCase 库存只读查询用例
// 不加锁、不开事务:读到的是某一瞬间的快照,
// 调用方不能依据它做扣减决策(决策只在扣减事务内做)
type GetStockUseCase struct {
	optionValueRepo product.OptionValueRepository
}

// NewGetStockUseCase 创建库存查询用例
func NewGetStockUseCase(optionValueRepo product.OptionValueRepository) *GetStockUseCase {
	return &GetStockUseCase{optionValueRepo: optionValueRepo}
}

// Execute 查询单个选项值的当前库存
func (uc *GetStockUseCase) Execute(ctx context.Context, optionValueID uint) (*product.OptionValue, error) {
	values, err := uc.optionValueRepo.FindByIDs(ctx, []uint{optionValueID})
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, product.ErrOptionValueNotFound
	}
	return values[0], nil
}
