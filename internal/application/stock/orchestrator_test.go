package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/product"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/stock"
)

// fastPolicy 测试用的快速重试策略(不等真实退避时间)
func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

// TestRetryPolicy_Delay 延迟有界:指数递增,抖动后不超过MaxDelay
func TestRetryPolicy_Delay(t *testing.T) {
	p := DefaultRetryPolicy()

	for retry := 1; retry <= 10; retry++ {
		for i := 0; i < 50; i++ {
			d := p.Delay(retry)
			assert.Positive(t, d)
			assert.LessOrEqual(t, d, p.MaxDelay, "第%d次重试延迟超出上界", retry)
		}
	}

	// 第1次重试的基础退避是50ms*1.5=75ms,抖动最多再加20%
	d := p.Delay(1)
	assert.GreaterOrEqual(t, d, 75*time.Millisecond)
	assert.LessOrEqual(t, d, 90*time.Millisecond)
}

// TestOrchestrator_RetryExhausted 持续冲突时恰好尝试MaxAttempts次,
// 返回ErrRetryLimitExceeded并保留原始冲突原因
func TestOrchestrator_RetryExhausted(t *testing.T) {
	db, _ := newTestFixture()
	conflictRepo := &conflictOptionValueRepo{
		OptionValueRepository: &memOptionValueRepo{db: db},
		conflicts:             -1, // 永远冲突
	}
	uc := NewDecrementStockUseCase(
		&memStoreRepo{db: db}, conflictRepo,
		&memDiscountRepo{db: db}, &memTxManager{db: db},
	)
	o := NewDecrementStockOrchestrator(uc, nil, fastPolicy())

	_, err := o.Execute(context.Background(), DecrementRequest{
		StoreID: 1,
		Items:   []stock.Item{{OptionValueID: 101, Quantity: 1}},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRetryLimitExceeded)
	assert.ErrorIs(t, err, product.ErrStockConflict, "原始冲突必须在错误链上")
	assert.Equal(t, 3, conflictRepo.calls, "必须恰好尝试3次")

	// 事务每次都回滚,库存保持不变
	assert.Equal(t, 20, db.stockOf(101))
}

// TestOrchestrator_RecoversAfterConflict 前2次冲突、第3次成功
func TestOrchestrator_RecoversAfterConflict(t *testing.T) {
	db, _ := newTestFixture()
	conflictRepo := &conflictOptionValueRepo{
		OptionValueRepository: &memOptionValueRepo{db: db},
		conflicts:             2,
	}
	uc := NewDecrementStockUseCase(
		&memStoreRepo{db: db}, conflictRepo,
		&memDiscountRepo{db: db}, &memTxManager{db: db},
	)
	o := NewDecrementStockOrchestrator(uc, nil, fastPolicy())

	resp, err := o.Execute(context.Background(), DecrementRequest{
		StoreID: 1,
		Items:   []stock.Item{{OptionValueID: 101, Quantity: 1}},
	})

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 3, conflictRepo.calls)
	assert.Equal(t, 19, db.stockOf(101), "最终只扣减一次")
}

// TestOrchestrator_NoRetryOnTerminalError 终态错误不重试
func TestOrchestrator_NoRetryOnTerminalError(t *testing.T) {
	db, uc := newTestFixture()
	_ = db
	o := NewDecrementStockOrchestrator(uc, nil, fastPolicy())

	start := time.Now()
	_, err := o.Execute(context.Background(), DecrementRequest{
		StoreID: 1,
		Items:   []stock.Item{{OptionValueID: 102, Quantity: 100}}, // 库存只有5
	})
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, product.ErrOutOfStock)
	// 没有退避等待:终态错误立即传播
	assert.Less(t, elapsed, 50*time.Millisecond)
}

// TestOrchestrator_PublishesEvent 成功后发布stock.updated事件
func TestOrchestrator_PublishesEvent(t *testing.T) {
	_, uc := newTestFixture()
	pub := &recordingPublisher{}
	o := NewDecrementStockOrchestrator(uc, pub, fastPolicy())

	resp, err := o.Execute(context.Background(), DecrementRequest{
		StoreID: 1,
		Items:   []stock.Item{{OptionValueID: 101, Quantity: 1}},
	})
	require.NoError(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, resp, pub.events[0])
}

// TestOrchestrator_PublishFailureIgnored 事件发布失败不影响扣减结果
func TestOrchestrator_PublishFailureIgnored(t *testing.T) {
	db, uc := newTestFixture()
	pub := &recordingPublisher{err: assert.AnError}
	o := NewDecrementStockOrchestrator(uc, pub, fastPolicy())

	resp, err := o.Execute(context.Background(), DecrementRequest{
		StoreID: 1,
		Items:   []stock.Item{{OptionValueID: 101, Quantity: 1}},
	})

	require.NoError(t, err, "发布失败不能传播给调用方")
	require.NotNil(t, resp)
	assert.Equal(t, 19, db.stockOf(101), "扣减已提交")
}

// TestOrchestrator_FailureNoEvent 扣减失败时不发布事件
func TestOrchestrator_FailureNoEvent(t *testing.T) {
	_, uc := newTestFixture()
	pub := &recordingPublisher{}
	o := NewDecrementStockOrchestrator(uc, pub, fastPolicy())

	_, err := o.Execute(context.Background(), DecrementRequest{
		StoreID: 999,
		Items:   []stock.Item{{OptionValueID: 101, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Empty(t, pub.events)
}

// TestRunWithRetry_ContextCancelled 退避等待期间ctx取消立即返回
func TestRunWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 2 * time.Second}
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := runWithRetry(ctx, policy, func(ctx context.Context) error {
		calls++
		return product.ErrStockConflict
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "取消后不再发起新的尝试")
}
