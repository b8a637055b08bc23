package stock

import (
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/product"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/store"
)

// AssembleUpdateResponse 组装库存扣减响应(纯映射,无副作用)
// 设计说明:
// 1. 只在所有数据库操作完成之后调用,组装失败不可能污染已提交状态
// 2. 折扣映射缺失的商品按0处理
// 3. Items顺序与传入的optionValues一致(仓储返回按ID升序)
func AssembleUpdateResponse(st *store.Store, optionValues []*product.OptionValue, discounts map[uint]int64) *UpdateResponse {
	policy := st.PolicyOrZero()

	items := make([]UpdatedItem, len(optionValues))
	for i, v := range optionValues {
		items[i] = UpdatedItem{
			ProductID:      v.Product.ID,
			OptionValueID:  v.ID,
			Price:          v.Product.Price,
			ExtraPrice:     v.ExtraPrice,
			DiscountAmount: discounts[v.Product.ID],
			OptionName:     v.Name,
			ProductName:    v.Product.Name,
		}
	}

	return &UpdateResponse{
		DefaultDeliveryFee: policy.DefaultDeliveryFee,
		MinOrderAmount:     policy.MinOrderAmount,
		MinOrderQuantity:   policy.MinOrderQuantity,
		StoreID:            st.ID,
		Items:              items,
	}
}
