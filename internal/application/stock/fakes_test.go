package stock

import (
	"context"
	"sync"

	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/product"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/stock"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/store"
)

// 内存版基础设施,模拟MySQL的悲观锁语义:
// memDB.mu扮演行锁的角色——Transaction持锁执行整个fn,
// 事务之间完全串行;失败时用快照整体还原,等价于ROLLBACK

type memDB struct {
	mu        sync.Mutex
	stores    map[uint]*store.Store
	values    map[uint]*product.OptionValue // 权威状态
	discounts map[uint]int64
}

func newMemDB() *memDB {
	return &memDB{
		stores:    make(map[uint]*store.Store),
		values:    make(map[uint]*product.OptionValue),
		discounts: make(map[uint]int64),
	}
}

func (db *memDB) addStore(s *store.Store) { db.stores[s.ID] = s }

func (db *memDB) addValue(v *product.OptionValue) { db.values[v.ID] = v }

// stockOf 读取权威库存(测试断言用)
func (db *memDB) stockOf(id uint) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.values[id].StockQuantity
}

func copyValue(v *product.OptionValue) *product.OptionValue {
	c := *v
	return &c
}

// memTxManager 串行化事务管理器
type memTxManager struct {
	db *memDB
}

func (m *memTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	// 快照当前状态,fn失败时整体还原(模拟ROLLBACK)
	snapshot := make(map[uint]*product.OptionValue, len(m.db.values))
	for id, v := range m.db.values {
		snapshot[id] = copyValue(v)
	}

	if err := fn(ctx); err != nil {
		m.db.values = snapshot
		return err
	}
	return nil
}

// memStoreRepo 店铺仓储的内存实现
type memStoreRepo struct {
	db *memDB
}

func (r *memStoreRepo) FindWithPolicy(ctx context.Context, id uint) (*store.Store, error) {
	s, ok := r.db.stores[id]
	if !ok {
		return nil, store.ErrStoreNotFound
	}
	return s, nil
}

// memOptionValueRepo 选项值仓储的内存实现
// 守卫UPDATE语义与MySQL实现一致:并发戳不匹配或库存不足时0行命中
type memOptionValueRepo struct {
	db *memDB
}

func (r *memOptionValueRepo) FindByIDs(ctx context.Context, ids []uint) ([]*product.OptionValue, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.loadLocked(ids), nil
}

func (r *memOptionValueRepo) LockByIDs(ctx context.Context, ids []uint) ([]*product.OptionValue, error) {
	// 调用方已在Transaction内持有db.mu(行锁等价物)
	return r.loadLocked(ids), nil
}

func (r *memOptionValueRepo) loadLocked(ids []uint) []*product.OptionValue {
	values := make([]*product.OptionValue, 0, len(ids))
	for _, id := range ids {
		if v, ok := r.db.values[id]; ok {
			values = append(values, copyValue(v))
		}
	}
	return values
}

func (r *memOptionValueRepo) DecrementStock(ctx context.Context, value *product.OptionValue, quantity int) error {
	cur, ok := r.db.values[value.ID]
	if !ok || cur.Version != value.Version || cur.StockQuantity < quantity {
		return product.ErrStockConflict
	}
	cur.StockQuantity -= quantity
	cur.Version++
	return value.Decrease(quantity)
}

func (r *memOptionValueRepo) RestoreStock(ctx context.Context, value *product.OptionValue, quantity int) error {
	cur, ok := r.db.values[value.ID]
	if !ok || cur.Version != value.Version {
		return product.ErrStockConflict
	}
	cur.StockQuantity += quantity
	cur.Version++
	return value.Restore(quantity)
}

// memDiscountRepo 折扣仓储的内存实现
type memDiscountRepo struct {
	db *memDB
}

func (r *memDiscountRepo) AmountsByProductIDs(ctx context.Context, productIDs []uint) (map[uint]int64, error) {
	amounts := make(map[uint]int64)
	for _, id := range productIDs {
		if amount, ok := r.db.discounts[id]; ok {
			amounts[id] = amount
		}
	}
	return amounts, nil
}

// conflictOptionValueRepo 前N次扣减强制返回瞬时冲突(重试路径测试用)
type conflictOptionValueRepo struct {
	product.OptionValueRepository
	mu        sync.Mutex
	conflicts int // 剩余的强制冲突次数;负数表示永远冲突
	calls     int
}

func (r *conflictOptionValueRepo) DecrementStock(ctx context.Context, value *product.OptionValue, quantity int) error {
	r.mu.Lock()
	r.calls++
	force := r.conflicts < 0 || r.conflicts > 0
	if r.conflicts > 0 {
		r.conflicts--
	}
	r.mu.Unlock()

	if force {
		return product.ErrStockConflict
	}
	return r.OptionValueRepository.DecrementStock(ctx, value, quantity)
}

// memIdempotencyStore 幂等键存储的内存实现
type memIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newMemIdempotencyStore() *memIdempotencyStore {
	return &memIdempotencyStore{keys: make(map[string]bool)}
}

func (s *memIdempotencyStore) Acquire(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *memIdempotencyStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []*stock.UpdateResponse
	err    error // 非nil时发布失败
}

func (p *recordingPublisher) PublishStockUpdated(ctx context.Context, resp *stock.UpdateResponse) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, resp)
	return nil
}

// newTestFixture 组装一套内存基础设施和默认测试数据:
// 店铺1(带配送策略)下商品10(选项值101/102),商品10有300分折扣;
// 店铺2下商品20(选项值201)
func newTestFixture() (*memDB, *DecrementStockUseCase) {
	db := newMemDB()

	db.addStore(&store.Store{
		ID:       1,
		MemberID: 7,
		Name:     "测试店铺",
		DeliveryPolicy: &store.DeliveryPolicy{
			ID:                 1,
			StoreID:            1,
			DefaultDeliveryFee: 300,
			MinOrderQuantity:   1,
			MinOrderAmount:     1000,
		},
	})
	db.addStore(&store.Store{ID: 2, MemberID: 8, Name: "别人的店铺"})

	db.addValue(&product.OptionValue{
		ID: 101, OptionGroupID: 11, Name: "红色", StockQuantity: 20, ExtraPrice: 500,
		Product: product.ProductRef{ID: 10, StoreID: 1, Name: "保温杯", Price: 5900},
	})
	db.addValue(&product.OptionValue{
		ID: 102, OptionGroupID: 11, Name: "蓝色", StockQuantity: 5, ExtraPrice: 0,
		Product: product.ProductRef{ID: 10, StoreID: 1, Name: "保温杯", Price: 5900},
	})
	db.addValue(&product.OptionValue{
		ID: 201, OptionGroupID: 21, Name: "大号", StockQuantity: 10, ExtraPrice: 0,
		Product: product.ProductRef{ID: 20, StoreID: 2, Name: "别人的商品", Price: 1000},
	})

	db.discounts[10] = 300

	uc := NewDecrementStockUseCase(
		&memStoreRepo{db: db},
		&memOptionValueRepo{db: db},
		&memDiscountRepo{db: db},
		&memTxManager{db: db},
	)
	return db, uc
}
