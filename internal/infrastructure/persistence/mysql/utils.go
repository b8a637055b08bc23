package mysql

import (
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/product"
)

// MySQL错误码
// 1213: Deadlock found when trying to get lock（InnoDB选择本事务为牺牲者）
// 1205: Lock wait timeout exceeded（等待行锁超过innodb_lock_wait_timeout）
const (
	mysqlErrDeadlock        = 1213
	mysqlErrLockWaitTimeout = 1205
)

// translateLockError 把MySQL锁相关错误翻译成业务错误
// 分类决定了上层的处理方式:
// - 死锁(1213): 事务已被回滚,属于瞬时冲突 → ErrStockConflict,编排层重试
// - 锁等待超时(1205): 等待已达上界,继续重试只会继续排队 → ErrLockTimeout,终态
func translateLockError(err error) error {
	if err == nil {
		return nil
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case mysqlErrDeadlock:
			return product.ErrStockConflict.WithCause(err)
		case mysqlErrLockWaitTimeout:
			return product.ErrLockTimeout.WithCause(err)
		}
	}
	return err
}
