package stock

// UpdateResponse 库存扣减成功后的对外响应载荷
// 字段组合:店铺配送策略 + 店铺ID + 每个选项值的记录
type UpdateResponse struct {
	DefaultDeliveryFee int64         `json:"default_delivery_fee"` // 默认配送费(分)
	MinOrderAmount     int64         `json:"min_order_amount"`     // 最小起订金额(分)
	MinOrderQuantity   int           `json:"min_order_quantity"`   // 最小起订数量
	StoreID            uint          `json:"store_id"`
	Items              []UpdatedItem `json:"items"`
}

// UpdatedItem 单个选项值的响应记录
type UpdatedItem struct {
	ProductID      uint   `json:"product_id"`
	OptionValueID  uint   `json:"option_value_id"`
	Price          int64  `json:"price"`           // 商品基础价格(分)
	ExtraPrice     int64  `json:"extra_price"`     // 选项加价(分)
	DiscountAmount int64  `json:"discount_amount"` // 折扣金额(分),无折扣为0
	OptionName     string `json:"option_name"`
	ProductName    string `json:"product_name"`
}

// Item 库存操作的请求项:选项值ID + 数量
type Item struct {
	OptionValueID uint
	Quantity      int
}
