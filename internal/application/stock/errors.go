package stock

import (
	apperrors "github.com/Profect-4th-IRUM/product-service-sub000/pkg/errors"
)

// 编排层错误定义
var (
	// ErrRetryLimitExceeded 瞬时冲突贯穿了全部重试次数
	ErrRetryLimitExceeded = apperrors.New(apperrors.ErrCodeRetryExhausted, "库存操作重试次数耗尽,请稍后再试")

	// ErrDuplicateRollback 幂等键已被处理过的回滚请求
	ErrDuplicateRollback = apperrors.New(apperrors.ErrCodeDuplicateRollback, "该回滚请求已处理,不能重复恢复库存")
)
