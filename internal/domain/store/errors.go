package store

import (
	apperrors "github.com/Profect-4th-IRUM/product-service-sub000/pkg/errors"
)

// 店铺领域错误定义
var (
	// ErrStoreNotFound 店铺不存在
	ErrStoreNotFound = apperrors.New(apperrors.ErrCodeStoreNotFound, "店铺不存在")
)
