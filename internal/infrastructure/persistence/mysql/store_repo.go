package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/store"
	apperrors "github.com/Profect-4th-IRUM/product-service-sub000/pkg/errors"
)

// storeRepository 店铺仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/store/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 数据库错误在这里转换为业务错误(如ErrStoreNotFound)
type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository 创建店铺仓储
func NewStoreRepository(db *gorm.DB) store.Repository {
	return &storeRepository{db: db}
}

// FindWithPolicy 根据ID查找店铺,Preload一并带出配送策略
// 店铺没有配送策略不算错误,响应组装时按零值处理
func (r *storeRepository) FindWithPolicy(ctx context.Context, id uint) (*store.Store, error) {
	var model StoreModel
	db := r.getDB(ctx)
	err := db.Preload("DeliveryPolicy").First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrStoreNotFound
		}
		return nil, apperrors.Wrap(err, "查询店铺失败")
	}

	return toStoreEntity(&model), nil
}

// toStoreEntity GORM模型 → 领域实体
func toStoreEntity(m *StoreModel) *store.Store {
	s := &store.Store{
		ID:        m.ID,
		MemberID:  m.MemberID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.DeliveryPolicy != nil {
		s.DeliveryPolicy = &store.DeliveryPolicy{
			ID:                 m.DeliveryPolicy.ID,
			StoreID:            m.DeliveryPolicy.StoreID,
			DefaultDeliveryFee: m.DeliveryPolicy.DefaultDeliveryFee,
			MinOrderQuantity:   m.DeliveryPolicy.MinOrderQuantity,
			MinOrderAmount:     m.DeliveryPolicy.MinOrderAmount,
		}
	}
	return s
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *storeRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
