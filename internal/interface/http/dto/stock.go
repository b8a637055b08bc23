package dto

// StockItemRequest 库存操作的单项:选项值ID + 数量
type StockItemRequest struct {
	OptionValueID uint `json:"option_value_id" binding:"required" example:"101"`
	Quantity      int  `json:"quantity" binding:"required,min=1" example:"2"`
}

// DecreaseStockRequest HTTP库存扣减请求
// validator tag说明:
// - dive: 对Items的每个元素应用元素级校验
// - min=1: 至少一项
type DecreaseStockRequest struct {
	StoreID uint               `json:"store_id" binding:"required" example:"1"`
	Items   []StockItemRequest `json:"items" binding:"required,min=1,dive"`
}

// RollbackStockRequest HTTP库存回滚请求
// IdempotencyKey通常是订单明细集合的标识,防止重复恢复
type RollbackStockRequest struct {
	IdempotencyKey string             `json:"idempotency_key" binding:"omitempty,max=64" example:"order-20260829-0001"`
	Items          []StockItemRequest `json:"items" binding:"required,min=1,dive"`
}

// StockUpdateResponse HTTP库存扣减响应
// 店铺配送策略 + 每个选项值的价格快照,供订单服务直接计算金额
type StockUpdateResponse struct {
	DefaultDeliveryFee int64              `json:"default_delivery_fee" example:"300"` // 默认配送费(分)
	MinOrderAmount     int64              `json:"min_order_amount" example:"1000"`    // 最小起订金额(分)
	MinOrderQuantity   int                `json:"min_order_quantity" example:"1"`
	StoreID            uint               `json:"store_id" example:"1"`
	Items              []StockUpdatedItem `json:"items"`
}

// StockUpdatedItem 扣减成功的单个选项值记录
type StockUpdatedItem struct {
	ProductID      uint   `json:"product_id" example:"10"`
	OptionValueID  uint   `json:"option_value_id" example:"101"`
	Price          int64  `json:"price" example:"5900"`          // 商品基础价格(分)
	ExtraPrice     int64  `json:"extra_price" example:"500"`     // 选项加价(分)
	DiscountAmount int64  `json:"discount_amount" example:"300"` // 折扣金额(分),无折扣为0
	OptionName     string `json:"option_name" example:"红色"`
	ProductName    string `json:"product_name" example:"保温杯"`
}

// StockResponse HTTP库存快照响应(只读查询)
type StockResponse struct {
	OptionValueID uint   `json:"option_value_id" example:"101"`
	OptionName    string `json:"option_name" example:"红色"`
	ProductID     uint   `json:"product_id" example:"10"`
	ProductName   string `json:"product_name" example:"保温杯"`
	StockQuantity int    `json:"stock_quantity" example:"20"`
}
