package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Profect-4th-IRUM/product-service-sub000/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&StoreModel{},
		&DeliveryPolicyModel{},
		&ProductModel{},
		&OptionGroupModel{},
		&OptionValueModel{},
		&DiscountModel{},
	)
}

// StoreModel GORM店铺模型
// 设计说明:
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/store/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type StoreModel struct {
	ID        uint      `gorm:"primaryKey"`
	MemberID  uint      `gorm:"index;not null;comment:店主会员ID"`
	Name      string    `gorm:"size:100;not null;comment:店铺名称"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`

	DeliveryPolicy *DeliveryPolicyModel `gorm:"foreignKey:StoreID"`
}

func (StoreModel) TableName() string {
	return "stores"
}

// DeliveryPolicyModel GORM配送策略模型
// 与店铺一对一，店铺可以没有策略（响应中按零值处理）
type DeliveryPolicyModel struct {
	ID                 uint  `gorm:"primaryKey"`
	StoreID            uint  `gorm:"uniqueIndex;not null;comment:店铺ID"`
	DefaultDeliveryFee int64 `gorm:"not null;default:0;comment:基础配送费(分)"`
	MinOrderQuantity   int   `gorm:"not null;default:0;comment:最小起订数量"`
	MinOrderAmount     int64 `gorm:"not null;default:0;comment:最小起订金额(分)"`
}

func (DeliveryPolicyModel) TableName() string {
	return "store_delivery_policies"
}

// ProductModel GORM商品模型
// 价格使用int64存储"分"为单位(避免浮点数精度问题)
type ProductModel struct {
	ID         uint      `gorm:"primaryKey"`
	StoreID    uint      `gorm:"index;not null;comment:所属店铺ID"`
	CategoryID uint      `gorm:"index;not null;comment:叶子分类ID"`
	Name       string    `gorm:"size:200;not null;comment:商品名称"`
	Price      int64     `gorm:"not null;comment:基础价格(分)"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

func (ProductModel) TableName() string {
	return "products"
}

// OptionGroupModel GORM选项组模型（如"颜色"、"尺寸"）
type OptionGroupModel struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID uint   `gorm:"index;not null;comment:所属商品ID"`
	Name      string `gorm:"size:50;not null;comment:选项组名称"`
}

func (OptionGroupModel) TableName() string {
	return "product_option_groups"
}

// OptionValueModel GORM选项值模型
// 教学要点:
// 1. StockQuantity是唯一的共享可变状态，只能在持有行锁的事务内修改
// 2. Version是并发戳，每次库存变更+1，守卫UPDATE靠它探测写冲突
type OptionValueModel struct {
	ID            uint   `gorm:"primaryKey"`
	OptionGroupID uint   `gorm:"index;not null;comment:所属选项组ID"`
	Name          string `gorm:"size:50;not null;comment:选项值名称"`
	StockQuantity int    `gorm:"not null;default:0;comment:库存数量"`
	ExtraPrice    int64  `gorm:"not null;default:0;comment:选项加价(分)"`
	Version       int64  `gorm:"not null;default:0;comment:并发戳"`
}

func (OptionValueModel) TableName() string {
	return "product_option_values"
}

// DiscountModel GORM折扣模型（本子系统只读）
type DiscountModel struct {
	ID        uint  `gorm:"primaryKey"`
	ProductID uint  `gorm:"index;not null;comment:商品ID"`
	Amount    int64 `gorm:"not null;comment:折扣金额(分)"`
}

func (DiscountModel) TableName() string {
	return "discounts"
}
