package stock

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/product"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/stock"
	"github.com/Profect-4th-IRUM/product-service-sub000/pkg/metrics"
	"github.com/Profect-4th-IRUM/product-service-sub000/pkg/tracing"
)

// RetryPolicy 瞬时冲突的重试策略
// 设计说明:
// 1. 只重试ErrStockConflict(瞬时写冲突);
//    NotFound/NotInStore/OutOfStock/LockTimeout都是终态,立即传播
// 2. 第i次重试前延迟 = min(MaxDelay, BaseDelay * 1.5^i) + 随机抖动,
//    抖动用于打散竞争者的重试节奏(避免重试风暴)
// 3. 耗尽MaxAttempts次尝试后转为终态ErrRetryLimitExceeded
type RetryPolicy struct {
	MaxAttempts int           // 总尝试次数(含第一次)
	BaseDelay   time.Duration // 基础延迟
	MaxDelay    time.Duration // 延迟上界(抖动后也不超过)
}

// DefaultRetryPolicy 默认策略:3次尝试,50ms基础延迟,500ms上界
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   50 * time.Millisecond,
		MaxDelay:    500 * time.Millisecond,
	}
}

// Delay 计算第retry次重试前的延迟(retry从1开始)
func (p RetryPolicy) Delay(retry int) time.Duration {
	backoff := float64(p.BaseDelay)
	for i := 0; i < retry; i++ {
		backoff *= 1.5
	}
	if backoff > float64(p.MaxDelay) {
		backoff = float64(p.MaxDelay)
	}

	// 抖动:在指数退避之上叠加最多20%的随机量
	jitter := rand.Float64() * 0.2 * backoff
	delay := time.Duration(backoff + jitter)
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

// DecrementStockOrchestrator 库存扣减编排器
// 用有界重试包装DecrementStockUseCase:
// 吸收"两个事务都读到旧值,先提交者赢,后提交者冲突"的残余竞争窗口,
// 重试时整个事务重新读到新状态,而不是盲目重放旧变更
type DecrementStockOrchestrator struct {
	useCase   *DecrementStockUseCase
	publisher EventPublisher // 可选,nil时不发布事件
	policy    RetryPolicy
}

// NewDecrementStockOrchestrator 创建库存扣减编排器
func NewDecrementStockOrchestrator(
	useCase *DecrementStockUseCase,
	publisher EventPublisher,
	policy RetryPolicy,
) *DecrementStockOrchestrator {
	if policy.MaxAttempts <= 0 {
		policy = DefaultRetryPolicy()
	}
	return &DecrementStockOrchestrator{
		useCase:   useCase,
		publisher: publisher,
		policy:    policy,
	}
}

// Execute 执行带重试的库存扣减
func (o *DecrementStockOrchestrator) Execute(ctx context.Context, req DecrementRequest) (*stock.UpdateResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "stock", "stock.Decrement")
	defer span.End()

	start := time.Now()

	var resp *stock.UpdateResponse
	attempts, err := o.retryTransient(ctx, func(ctx context.Context) error {
		var execErr error
		resp, execErr = o.useCase.Execute(ctx, req)
		return execErr
	})

	metrics.ObserveDecrement(time.Since(start), attempts, err)

	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	// 事件只是通知,发布失败不回传:数据库提交才是事实源
	if o.publisher != nil {
		if pubErr := o.publisher.PublishStockUpdated(ctx, resp); pubErr != nil {
			log.Printf("stock.updated事件发布失败(已忽略): store_id=%d err=%v", resp.StoreID, pubErr)
		}
	}

	return resp, nil
}

// retryTransient 通用的瞬时冲突重试循环,返回实际尝试次数
// RollbackStockUseCase复用同一套策略
func (o *DecrementStockOrchestrator) retryTransient(ctx context.Context, op func(ctx context.Context) error) (int, error) {
	return runWithRetry(ctx, o.policy, op)
}

// runWithRetry 按策略执行op,只对ErrStockConflict重试
func runWithRetry(ctx context.Context, policy RetryPolicy, op func(ctx context.Context) error) (int, error) {
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		lastErr = op(ctx)
		if lastErr == nil {
			return attempt, nil
		}

		// 终态错误立即传播
		if !errors.Is(lastErr, product.ErrStockConflict) {
			return attempt, lastErr
		}

		metrics.IncStockConflict()

		if attempt == policy.MaxAttempts {
			break
		}

		delay := policy.Delay(attempt)
		log.Printf("库存写冲突,第%d次重试前退避%v", attempt, delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return attempt, ctx.Err()
		}
	}

	// 重试耗尽:记录尝试次数和原始冲突后转为终态错误
	log.Printf("库存操作重试耗尽: attempts=%d last_err=%v", policy.MaxAttempts, lastErr)
	return policy.MaxAttempts, ErrRetryLimitExceeded.WithCause(lastErr)
}
