// Package mq 库存事件的MQ适配器
package mq

import (
	"context"
	"log"
	"time"

	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/stock"
	"github.com/Profect-4th-IRUM/product-service-sub000/pkg/circuitbreaker"
	"github.com/Profect-4th-IRUM/product-service-sub000/pkg/mq"
)

// RoutingKeyStockUpdated 库存扣减成功事件
const RoutingKeyStockUpdated = "stock.updated"

// StockEventPublisher 库存事件发布适配器
// 设计说明:
// 1. 实现应用层的EventPublisher端口
// 2. 熔断器保护:RabbitMQ持续不可用时快速失败,
//    不让发布超时拖慢库存扣减主流程(事件只是通知,数据库提交是事实源)
type StockEventPublisher struct {
	publisher *mq.Publisher
	cb        *circuitbreaker.CircuitBreaker
}

// NewStockEventPublisher 创建库存事件发布适配器
func NewStockEventPublisher(publisher *mq.Publisher) *StockEventPublisher {
	cb := circuitbreaker.NewCircuitBreaker("stock-events", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("熔断器[%s]状态变化: %s → %s", name, from, to)
	})

	return &StockEventPublisher{publisher: publisher, cb: cb}
}

// PublishStockUpdated 发布stock.updated事件
func (p *StockEventPublisher) PublishStockUpdated(ctx context.Context, resp *stock.UpdateResponse) error {
	return p.cb.Execute(func() error {
		return p.publisher.Publish(ctx, RoutingKeyStockUpdated, resp)
	})
}
