package product

import (
	"time"
)

// Product 商品实体
// 设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. 商品属于唯一的店铺(StoreID)和唯一的叶子分类(CategoryID)
// 3. 本子系统只读取商品信息,商品CRUD由目录模块负责
type Product struct {
	ID         uint
	StoreID    uint   // 所属店铺ID
	CategoryID uint   // 叶子分类ID
	Name       string // 商品名称
	Price      int64  // 基础价格(分)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OptionGroup 商品选项组(如"颜色"、"尺寸")
// 属于唯一的商品
type OptionGroup struct {
	ID        uint
	ProductID uint
	Name      string
}

// ProductRef 选项值所属商品的快照
// 锁定查询时通过JOIN一并取出,用于店铺归属校验和响应组装
type ProductRef struct {
	ID      uint   // 商品ID
	StoreID uint   // 所属店铺ID
	Name    string // 商品名称
	Price   int64  // 基础价格(分)
}

// OptionValue 商品选项值实体(如"红色"、"XL")
// 设计说明:
// 1. 库存数量(StockQuantity)是本子系统唯一的共享可变状态,
//    只允许在持有行锁的事务内通过扣减/恢复操作修改
// 2. Version是并发戳,每次库存变更递增,用于探测写冲突
// 3. ExtraPrice是在商品基础价格之上的加价(分)
type OptionValue struct {
	ID            uint
	OptionGroupID uint
	Name          string // 选项值名称
	StockQuantity int    // 库存数量(任何成功变更后>=0)
	ExtraPrice    int64  // 选项加价(分)
	Version       int64  // 并发戳

	Product ProductRef
}

// CanDecrease 判断是否可以扣减库存
// 扣减前的业务规则验证:数量为正且库存充足
func (v *OptionValue) CanDecrease(quantity int) bool {
	return quantity > 0 && v.StockQuantity >= quantity
}

// BelongsToStore 检查选项值所属商品是否归属指定店铺
func (v *OptionValue) BelongsToStore(storeID uint) bool {
	return v.Product.StoreID == storeID
}

// Decrease 扣减库存(领域行为)
// 必须先通过CanDecrease校验;违反时返回ErrOutOfStock
func (v *OptionValue) Decrease(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if v.StockQuantity < quantity {
		return ErrOutOfStock
	}
	v.StockQuantity -= quantity
	v.Version++
	return nil
}

// Restore 恢复库存(用于订单失败/取消的补偿)
func (v *OptionValue) Restore(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	v.StockQuantity += quantity
	v.Version++
	return nil
}

// SellingPrice 选项值的实际售价 = 商品基础价 + 选项加价
func (v *OptionValue) SellingPrice() int64 {
	return v.Product.Price + v.ExtraPrice
}

// Discount 折扣记录(本子系统只读)
// 只用于在响应中计算有效价格,绝不修改
type Discount struct {
	ID        uint
	ProductID uint
	Amount    int64 // 折扣金额(分)
}
