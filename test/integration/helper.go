package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试辅助工具
// 黑盒测试:通过HTTP调用运行中的服务,需要先启动服务和依赖
// (MySQL/Redis,见config/config.yaml),并预置测试数据

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// StockUpdateData 库存扣减响应数据
type StockUpdateData struct {
	DefaultDeliveryFee int64              `json:"default_delivery_fee"`
	MinOrderAmount     int64              `json:"min_order_amount"`
	MinOrderQuantity   int                `json:"min_order_quantity"`
	StoreID            uint               `json:"store_id"`
	Items              []StockUpdatedItem `json:"items"`
}

// StockUpdatedItem 扣减成功的单项记录
type StockUpdatedItem struct {
	ProductID      uint   `json:"product_id"`
	OptionValueID  uint   `json:"option_value_id"`
	Price          int64  `json:"price"`
	ExtraPrice     int64  `json:"extra_price"`
	DiscountAmount int64  `json:"discount_amount"`
	OptionName     string `json:"option_name"`
	ProductName    string `json:"product_name"`
}

// StockData 库存快照响应数据
type StockData struct {
	OptionValueID uint   `json:"option_value_id"`
	OptionName    string `json:"option_name"`
	ProductID     uint   `json:"product_id"`
	ProductName   string `json:"product_name"`
	StockQuantity int    `json:"stock_quantity"`
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}) *Response {
	jsonData, err := json.Marshal(data)
	require.NoError(t, err, "JSON序列化失败")

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")

	return doRequest(t, req)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string) *Response {
	req, err := http.NewRequest("GET", url, nil)
	require.NoError(t, err, "创建HTTP请求失败")

	return doRequest(t, req)
}

func doRequest(t *testing.T, req *http.Request) *Response {
	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(body, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(body))

	return &result
}

// GetStockQuantity 查询选项值当前库存
func GetStockQuantity(t *testing.T, optionValueID uint) int {
	resp := GetJSON(t, fmt.Sprintf("%s/stocks/%d", BaseURL, optionValueID))
	require.Equal(t, 0, resp.Code, "库存查询应该成功: %s", resp.Message)

	var data StockData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return data.StockQuantity
}

// GenerateIdempotencyKey 生成唯一的幂等键
func GenerateIdempotencyKey(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
