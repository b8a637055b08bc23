package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/product"
	apperrors "github.com/Profect-4th-IRUM/product-service-sub000/pkg/errors"
)

// discountRepository 折扣仓储实现(MySQL,只读)
type discountRepository struct {
	db *gorm.DB
}

// NewDiscountRepository 创建折扣仓储
func NewDiscountRepository(db *gorm.DB) product.DiscountRepository {
	return &discountRepository{db: db}
}

// AmountsByProductIDs 按商品ID列表查询折扣金额
// 没有折扣的商品不在返回的映射中,调用方按0处理
func (r *discountRepository) AmountsByProductIDs(ctx context.Context, productIDs []uint) (map[uint]int64, error) {
	if len(productIDs) == 0 {
		return map[uint]int64{}, nil
	}

	var models []DiscountModel
	db := r.getDB(ctx)
	err := db.Where("product_id IN ?", productIDs).Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询折扣失败")
	}

	amounts := make(map[uint]int64, len(models))
	for _, m := range models {
		// 同一商品多条折扣时取金额最大的一条
		if cur, ok := amounts[m.ProductID]; !ok || m.Amount > cur {
			amounts[m.ProductID] = m.Amount
		}
	}
	return amounts, nil
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *discountRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
