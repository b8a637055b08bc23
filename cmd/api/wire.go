//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// 工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	appstock "github.com/Profect-4th-IRUM/product-service-sub000/internal/application/stock"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/domain/product"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/infrastructure/config"
	inframq "github.com/Profect-4th-IRUM/product-service-sub000/internal/infrastructure/mq"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/infrastructure/persistence/mysql"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/infrastructure/persistence/redis"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/interface/http/handler"
	"github.com/Profect-4th-IRUM/product-service-sub000/pkg/mq"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,     // 加载配置文件
	mysql.NewDB,     // 创建MySQL连接
	redis.NewClient, // 创建Redis连接
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewStoreRepository,    // 店铺仓储
	provideOptionValueRepo,      // 选项值仓储(需要锁等待配置)
	mysql.NewDiscountRepository, // 折扣仓储
	mysql.NewTxManager,          // 事务管理器
	wire.Bind(new(appstock.TxManager), new(*mysql.TxManager)),
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	provideRetryPolicy,
	appstock.NewDecrementStockUseCase,
	appstock.NewDecrementStockOrchestrator,
	appstock.NewRollbackStockUseCase,
	appstock.NewGetStockUseCase,
	provideIdempotencyStore,
	wire.Bind(new(appstock.IdempotencyStore), new(*redis.IdempotencyStore)),
)

// mqSet 消息队列依赖
var mqSet = wire.NewSet(
	providePublisher,
	inframq.NewStockEventPublisher,
	wire.Bind(new(appstock.EventPublisher), new(*inframq.StockEventPublisher)),
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewStockHandler,
)

// provideOptionValueRepo 选项值仓储需要从Config提取锁等待上限
// Wire无法自动从Config拆字段，需要手动编写Provider
func provideOptionValueRepo(db *gorm.DB, cfg *config.Config) product.OptionValueRepository {
	return mysql.NewOptionValueRepository(db, cfg.Database.LockWaitTimeout)
}

// provideRetryPolicy 从配置构造重试策略
func provideRetryPolicy(cfg *config.Config) appstock.RetryPolicy {
	return appstock.RetryPolicy{
		MaxAttempts: cfg.Stock.MaxAttempts,
		BaseDelay:   cfg.Stock.BaseDelay,
		MaxDelay:    cfg.Stock.MaxDelay,
	}
}

// provideIdempotencyStore 幂等键存储需要TTL配置
func provideIdempotencyStore(client *goredis.Client, cfg *config.Config) *redis.IdempotencyStore {
	return redis.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
}

// providePublisher 创建MQ发布端
func providePublisher(cfg *config.Config) (*mq.Publisher, error) {
	return mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
}

// provideGinEngine 创建并配置Gin引擎
func provideGinEngine(cfg *config.Config, stockHandler *handler.StockHandler) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	registerRoutes(r, stockHandler)
	return r
}

// InitializeApp 初始化整个应用
//
// 依赖链示例：
// *gin.Engine → *handler.StockHandler → *appstock.DecrementStockOrchestrator
// → *appstock.DecrementStockUseCase → product.OptionValueRepository → *gorm.DB → *config.Config
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		applicationSet,
		mqSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
