package store

import (
	"time"
)

// Store 店铺实体(聚合根)
// 设计说明:
// 1. Store是店铺聚合的根实体,MemberID关联店铺所有者
// 2. 一个店铺最多只有一个配送策略(DeliveryPolicy)
// 3. 本子系统只读取店铺,绝不创建或删除
type Store struct {
	ID        uint
	MemberID  uint   // 店铺所有者(会员)ID
	Name      string // 店铺名称
	CreatedAt time.Time
	UpdatedAt time.Time

	// DeliveryPolicy 配送策略(一对一,可能为nil)
	DeliveryPolicy *DeliveryPolicy
}

// DeliveryPolicy 配送策略
// 金额使用int64存储"分"为单位(避免浮点数精度问题)
type DeliveryPolicy struct {
	ID                 uint
	StoreID            uint
	DefaultDeliveryFee int64 // 默认配送费(分)
	MinOrderQuantity   int   // 最小起订数量
	MinOrderAmount     int64 // 最小起订金额(分)
}

// PolicyOrZero 返回配送策略,没有则返回零值策略
// 库存响应需要配送策略字段,店铺未配置时按零值处理
func (s *Store) PolicyOrZero() DeliveryPolicy {
	if s.DeliveryPolicy == nil {
		return DeliveryPolicy{StoreID: s.ID}
	}
	return *s.DeliveryPolicy
}
