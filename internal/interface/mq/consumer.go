// Package mq stock.restore命令的消费端
package mq

import (
	"context"
	"encoding/json"
	"log"

	appstock "github.com/Profect-4th-IRUM/product-service-sub000/internal/application/stock"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/stock"
	apperrors "github.com/Profect-4th-IRUM/product-service-sub000/pkg/errors"
	"github.com/Profect-4th-IRUM/product-service-sub000/pkg/mq"
)

// RoutingKeyStockRestore 库存恢复命令
// 订单服务在订单失败/取消时发送,携带幂等键防止重投导致的双倍恢复
const RoutingKeyStockRestore = "stock.restore"

// RestoreCommand stock.restore消息体
type RestoreCommand struct {
	IdempotencyKey string        `json:"idempotency_key"`
	Items          []RestoreItem `json:"items"`
}

type RestoreItem struct {
	OptionValueID uint `json:"option_value_id"`
	Quantity      int  `json:"quantity"`
}

// RestoreConsumer stock.restore命令消费者
type RestoreConsumer struct {
	consumer *mq.Consumer
	rollback *appstock.RollbackStockUseCase
}

// NewRestoreConsumer 创建库存恢复消费者
func NewRestoreConsumer(consumer *mq.Consumer, rollback *appstock.RollbackStockUseCase) *RestoreConsumer {
	return &RestoreConsumer{consumer: consumer, rollback: rollback}
}

// Start 阻塞消费stock.restore命令,ctx取消后返回
//
// Ack语义(防止毒消息无限重投):
// - 处理成功 → Ack
// - 业务终态错误(重复回滚、选项值不存在、参数非法) → 记日志后Ack,
//   重投不可能改变结果
// - 系统错误(数据库/Redis不可用、重试耗尽) → Nack重新入队,稍后再试
func (c *RestoreConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, func(body []byte) error {
		var cmd RestoreCommand
		if err := json.Unmarshal(body, &cmd); err != nil {
			log.Printf("stock.restore消息解析失败,丢弃: %v", err)
			return nil // 格式错误的消息重投无意义
		}

		items := make([]stock.Item, 0, len(cmd.Items))
		for _, it := range cmd.Items {
			items = append(items, stock.Item{OptionValueID: it.OptionValueID, Quantity: it.Quantity})
		}

		err := c.rollback.Execute(ctx, appstock.RollbackRequest{
			IdempotencyKey: cmd.IdempotencyKey,
			Items:          items,
		})
		if err == nil {
			return nil
		}

		if isTerminal(err) {
			log.Printf("stock.restore终态失败,不再重投: key=%s err=%v", cmd.IdempotencyKey, err)
			return nil
		}
		return err
	})
}

// isTerminal 判断回滚错误是否为终态(重投不可能成功)
func isTerminal(err error) bool {
	if !apperrors.IsAppError(err) {
		return false
	}
	switch apperrors.GetAppError(err).Code {
	case apperrors.ErrCodeDuplicateRollback,
		apperrors.ErrCodeProductNotFound,
		apperrors.ErrCodeInvalidParams:
		return true
	default:
		return false
	}
}

// Close 关闭底层连接
func (c *RestoreConsumer) Close() error {
	return c.consumer.Close()
}
