package product

import (
	apperrors "github.com/Profect-4th-IRUM/product-service-sub000/pkg/errors"
)

// 商品/库存领域错误定义
// 设计说明:
// 1. 除ErrStockConflict外全部是终态错误,编排层不得重试
// 2. ErrStockConflict代表瞬时写冲突(死锁、并发戳失效),
//    由编排层按退避策略重试
var (
	// ErrOptionValueNotFound 请求的选项值不存在(部分缺失也算整体失败)
	ErrOptionValueNotFound = apperrors.New(apperrors.ErrCodeProductNotFound, "商品选项值不存在")

	// ErrProductNotInStore 选项值所属商品不归属请求授权的店铺
	ErrProductNotInStore = apperrors.New(apperrors.ErrCodeProductNotInStore, "商品不属于该店铺")

	// ErrOutOfStock 库存不足(重试无意义,需要调整数量后重新提交)
	ErrOutOfStock = apperrors.New(apperrors.ErrCodeOutOfStock, "库存不足")

	// ErrStockConflict 瞬时并发写冲突(唯一允许重试的错误)
	ErrStockConflict = apperrors.New(apperrors.ErrCodeStockConflict, "库存并发冲突")

	// ErrLockTimeout 行锁等待超时(本子系统内不重试,由调用方决定是否稍后整体重试)
	ErrLockTimeout = apperrors.New(apperrors.ErrCodeLockTimeout, "库存行锁等待超时")

	// ErrInvalidQuantity 无效的数量
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "数量必须大于0")
)
