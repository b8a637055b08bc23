package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/product"
	apperrors "github.com/Profect-4th-IRUM/product-service-sub000/pkg/errors"
)

// optionValueRepository 选项值仓储实现(MySQL)
// 这是防超卖的关键实现:
// 1. LockByIDs用SELECT ... FOR UPDATE OF pov锁定选项值行
//    (JOIN出来的商品/选项组行不加锁,缩小锁范围)
// 2. 锁等待有上界:事务内SET innodb_lock_wait_timeout
// 3. 扣减/恢复走守卫UPDATE,并发戳version每次+1
type optionValueRepository struct {
	db *gorm.DB
	// lockWaitTimeout 行锁等待上限(秒),超过后MySQL返回1205
	lockWaitTimeout int
}

// NewOptionValueRepository 创建选项值仓储
func NewOptionValueRepository(db *gorm.DB, lockWaitTimeout int) product.OptionValueRepository {
	if lockWaitTimeout <= 0 {
		lockWaitTimeout = 3
	}
	return &optionValueRepository{db: db, lockWaitTimeout: lockWaitTimeout}
}

// optionValueRow 锁定查询的扫描结构
// 一次JOIN带出选项值自身和所属商品的快照
type optionValueRow struct {
	ID            uint
	OptionGroupID uint
	Name          string
	StockQuantity int
	ExtraPrice    int64
	Version       int64
	ProductID     uint
	StoreID       uint
	ProductName   string
	ProductPrice  int64
}

const optionValueSelect = "pov.id, pov.option_group_id, pov.name, pov.stock_quantity, " +
	"pov.extra_price, pov.version, " +
	"p.id AS product_id, p.store_id, p.name AS product_name, p.price AS product_price"

// optionValueQuery 选项值 → 选项组 → 商品的JOIN查询
// 按pov.id升序:固定的加锁顺序能降低多行事务之间的死锁概率
func (r *optionValueRepository) optionValueQuery(db *gorm.DB, ids []uint) *gorm.DB {
	return db.Table("product_option_values AS pov").
		Select(optionValueSelect).
		Joins("JOIN product_option_groups AS pog ON pog.id = pov.option_group_id").
		Joins("JOIN products AS p ON p.id = pog.product_id").
		Where("pov.id IN ?", ids).
		Order("pov.id ASC")
}

// FindByIDs 普通查询(不加锁)
func (r *optionValueRepository) FindByIDs(ctx context.Context, ids []uint) ([]*product.OptionValue, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []optionValueRow
	db := r.getDB(ctx)
	if err := r.optionValueQuery(db, ids).Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询选项值失败")
	}

	return toOptionValueEntities(rows), nil
}

// LockByIDs 锁定查询(SELECT FOR UPDATE OF pov)
// 教学要点:
// 1. 必须在事务中调用(getDB从context取事务DB)
// 2. FOR UPDATE OF pov只锁选项值行,JOIN的商品行不锁
// 3. 先SET innodb_lock_wait_timeout给锁等待设上界,
//    超时由MySQL返回1205,translateLockError翻译为ErrLockTimeout
// 4. 死锁(1213)时InnoDB已回滚本事务,翻译为ErrStockConflict由上层重试
func (r *optionValueRepository) LockByIDs(ctx context.Context, ids []uint) ([]*product.OptionValue, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := r.getDB(ctx)

	// 会话级设置,事务结束后由连接池归还时不影响其他事务语义
	// (每次锁定查询前都重设,保证值始终正确)
	if err := db.Exec("SET innodb_lock_wait_timeout = ?", r.lockWaitTimeout).Error; err != nil {
		return nil, apperrors.Wrap(err, "设置锁等待超时失败")
	}

	var rows []optionValueRow
	err := r.optionValueQuery(db, ids).
		Clauses(clause.Locking{
			Strength: "UPDATE",
			Table:    clause.Table{Name: "pov"},
		}).
		Scan(&rows).Error
	if err != nil {
		return nil, translateLockError(err)
	}

	return toOptionValueEntities(rows), nil
}

// DecrementStock 扣减库存(守卫UPDATE)
// WHERE同时校验并发戳和库存充足:
//
//	UPDATE product_option_values
//	SET stock_quantity = stock_quantity - ?, version = version + 1
//	WHERE id = ? AND version = ? AND stock_quantity >= ?
//
// 行锁已持有的前提下RowsAffected=0只能来自瞬时冲突 → ErrStockConflict
func (r *optionValueRepository) DecrementStock(ctx context.Context, value *product.OptionValue, quantity int) error {
	if quantity <= 0 {
		return product.ErrInvalidQuantity
	}

	db := r.getDB(ctx)
	result := db.Model(&OptionValueModel{}).
		Where("id = ? AND version = ? AND stock_quantity >= ?", value.ID, value.Version, quantity).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"version":        gorm.Expr("version + 1"),
		})

	if result.Error != nil {
		return translateLockError(result.Error)
	}
	if result.RowsAffected == 0 {
		return product.ErrStockConflict
	}

	// 同步内存实体(响应组装读取的是实体)
	return value.Decrease(quantity)
}

// RestoreStock 恢复库存(补偿路径,同样的并发戳守卫)
func (r *optionValueRepository) RestoreStock(ctx context.Context, value *product.OptionValue, quantity int) error {
	if quantity <= 0 {
		return product.ErrInvalidQuantity
	}

	db := r.getDB(ctx)
	result := db.Model(&OptionValueModel{}).
		Where("id = ? AND version = ?", value.ID, value.Version).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", quantity),
			"version":        gorm.Expr("version + 1"),
		})

	if result.Error != nil {
		return translateLockError(result.Error)
	}
	if result.RowsAffected == 0 {
		return product.ErrStockConflict
	}

	return value.Restore(quantity)
}

// toOptionValueEntities 扫描行 → 领域实体
func toOptionValueEntities(rows []optionValueRow) []*product.OptionValue {
	values := make([]*product.OptionValue, 0, len(rows))
	for _, row := range rows {
		values = append(values, &product.OptionValue{
			ID:            row.ID,
			OptionGroupID: row.OptionGroupID,
			Name:          row.Name,
			StockQuantity: row.StockQuantity,
			ExtraPrice:    row.ExtraPrice,
			Version:       row.Version,
			Product: product.ProductRef{
				ID:      row.ProductID,
				StoreID: row.StoreID,
				Name:    row.ProductName,
				Price:   row.ProductPrice,
			},
		})
	}
	return values
}

// getDB 从context获取事务DB,如果没有则使用默认DB
func (r *optionValueRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return r.db.WithContext(ctx)
}
