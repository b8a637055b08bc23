package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/product"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/stock"
)

func newRollbackUseCase(db *memDB, idem IdempotencyStore) *RollbackStockUseCase {
	return NewRollbackStockUseCase(
		&memOptionValueRepo{db: db},
		&memTxManager{db: db},
		idem,
		fastPolicy(),
	)
}

// TestRollback_RoundTrip 往返恒等:扣减n件再回滚n件,库存回到初始值
func TestRollback_RoundTrip(t *testing.T) {
	db, decrement := newTestFixture()
	rollback := newRollbackUseCase(db, nil)

	items := []stock.Item{
		{OptionValueID: 101, Quantity: 3},
		{OptionValueID: 102, Quantity: 2},
	}

	_, err := decrement.Execute(context.Background(), DecrementRequest{StoreID: 1, Items: items})
	require.NoError(t, err)
	require.Equal(t, 17, db.stockOf(101))
	require.Equal(t, 3, db.stockOf(102))

	err = rollback.Execute(context.Background(), RollbackRequest{Items: items})
	require.NoError(t, err)

	assert.Equal(t, 20, db.stockOf(101), "回滚后库存回到初始值")
	assert.Equal(t, 5, db.stockOf(102))
}

// TestRollback_Idempotency 同一幂等键第二次提交被拒绝,库存只恢复一次
func TestRollback_Idempotency(t *testing.T) {
	db, decrement := newTestFixture()
	rollback := newRollbackUseCase(db, newMemIdempotencyStore())

	items := []stock.Item{{OptionValueID: 101, Quantity: 5}}
	_, err := decrement.Execute(context.Background(), DecrementRequest{StoreID: 1, Items: items})
	require.NoError(t, err)
	require.Equal(t, 15, db.stockOf(101))

	req := RollbackRequest{IdempotencyKey: "order-1", Items: items}

	require.NoError(t, rollback.Execute(context.Background(), req))
	assert.Equal(t, 20, db.stockOf(101))

	// 重复提交(MQ重投/调用方超时重试)
	err = rollback.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDuplicateRollback)
	assert.Equal(t, 20, db.stockOf(101), "库存不能被二次恢复")
}

// TestRollback_ReleasesKeyOnFailure 回滚事务失败时归还幂等键,允许重试
func TestRollback_ReleasesKeyOnFailure(t *testing.T) {
	db, _ := newTestFixture()
	idem := newMemIdempotencyStore()
	rollback := newRollbackUseCase(db, idem)

	req := RollbackRequest{
		IdempotencyKey: "order-2",
		Items:          []stock.Item{{OptionValueID: 999, Quantity: 1}}, // 不存在
	}

	err := rollback.Execute(context.Background(), req)
	assert.ErrorIs(t, err, product.ErrOptionValueNotFound)

	// 键已归还:修正请求后同一个键可以重新使用
	acquired, err := idem.Acquire(context.Background(), "order-2")
	require.NoError(t, err)
	assert.True(t, acquired, "失败后幂等键必须可重新占用")
}

// TestRollback_MissingValue 部分选项值缺失 → 整体失败且零变更
func TestRollback_MissingValue(t *testing.T) {
	db, _ := newTestFixture()
	rollback := newRollbackUseCase(db, nil)

	err := rollback.Execute(context.Background(), RollbackRequest{
		Items: []stock.Item{
			{OptionValueID: 101, Quantity: 1},
			{OptionValueID: 999, Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, product.ErrOptionValueNotFound)
	assert.Equal(t, 20, db.stockOf(101), "存在的项也必须保持未动")
}

// TestRollback_InvalidRequest 非法参数
func TestRollback_InvalidRequest(t *testing.T) {
	db, _ := newTestFixture()
	rollback := newRollbackUseCase(db, nil)

	err := rollback.Execute(context.Background(), RollbackRequest{})
	assert.Error(t, err)

	err = rollback.Execute(context.Background(), RollbackRequest{
		Items: []stock.Item{{OptionValueID: 101, Quantity: -1}},
	})
	assert.ErrorIs(t, err, product.ErrInvalidQuantity)
	assert.Equal(t, 20, db.stockOf(101))
}

// TestRollback_NoKeySkipsIdempotency 不携带幂等键时跳过幂等检查
func TestRollback_NoKeySkipsIdempotency(t *testing.T) {
	db, decrement := newTestFixture()
	rollback := newRollbackUseCase(db, newMemIdempotencyStore())

	items := []stock.Item{{OptionValueID: 102, Quantity: 2}}
	_, err := decrement.Execute(context.Background(), DecrementRequest{StoreID: 1, Items: items})
	require.NoError(t, err)

	// 两次无键回滚都会执行(调用方自行保证只调一次)
	require.NoError(t, rollback.Execute(context.Background(), RollbackRequest{Items: items}))
	require.NoError(t, rollback.Execute(context.Background(), RollbackRequest{Items: items}))
	assert.Equal(t, 7, db.stockOf(102))
}
