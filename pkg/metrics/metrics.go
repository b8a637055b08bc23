// Package metrics 提供基于Prometheus的库存操作指标
//
// 指标设计：
// - Counter（计数器）：扣减/回滚结果计数、瞬时冲突计数、行锁超时计数
// - Histogram（直方图）：扣减耗时分布（自动计算P50、P90、P99）
//
// 使用方式：
//  1. 业务代码调用ObserveDecrement/ObserveRollback/IncStockConflict
//  2. /metrics端点暴露给Prometheus Server抓取
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/Profect-4th-IRUM/product-service-sub000/pkg/errors"
)

var (
	// decrementTotal 扣减结果计数,outcome区分成功/各类失败
	decrementTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_decrement_total",
		Help: "Total number of stock decrement operations by outcome.",
	}, []string{"outcome"})

	// decrementAttempts 每次扣减的实际尝试次数分布
	decrementAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_decrement_attempts",
		Help:    "Number of attempts per stock decrement operation.",
		Buckets: []float64{1, 2, 3},
	})

	// decrementDuration 扣减整体耗时(含重试退避)
	decrementDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_decrement_duration_seconds",
		Help:    "Duration of stock decrement operations including retries.",
		Buckets: prometheus.DefBuckets,
	})

	// rollbackTotal 回滚结果计数
	rollbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_rollback_total",
		Help: "Total number of stock rollback operations by outcome.",
	}, []string{"outcome"})

	// conflictTotal 瞬时写冲突(触发重试)计数
	conflictTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_conflict_total",
		Help: "Total number of transient stock write conflicts.",
	})
)

// ObserveDecrement 记录一次扣减操作的结果、尝试次数和耗时
func ObserveDecrement(duration time.Duration, attempts int, err error) {
	decrementTotal.WithLabelValues(outcome(err)).Inc()
	decrementAttempts.Observe(float64(attempts))
	decrementDuration.Observe(duration.Seconds())
}

// ObserveRollback 记录一次回滚操作的结果和尝试次数
func ObserveRollback(attempts int, err error) {
	rollbackTotal.WithLabelValues(outcome(err)).Inc()
}

// IncStockConflict 记录一次瞬时写冲突
func IncStockConflict() {
	conflictTotal.Inc()
}

// Handler 返回/metrics端点的HTTP处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// outcome 把错误映射为低基数的结果标签
// 注意：标签值必须是有限集合，绝不能把原始错误信息当标签
func outcome(err error) string {
	if err == nil {
		return "success"
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.ErrCodeOutOfStock:
			return "out_of_stock"
		case apperrors.ErrCodeLockTimeout:
			return "lock_timeout"
		case apperrors.ErrCodeRetryExhausted:
			return "retry_exhausted"
		case apperrors.ErrCodeStoreNotFound, apperrors.ErrCodeProductNotFound:
			return "not_found"
		case apperrors.ErrCodeProductNotInStore:
			return "not_in_store"
		}
	}
	return "error"
}
