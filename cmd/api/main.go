package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"google.golang.org/grpc"

	_ "github.com/Profect-4th-IRUM/product-service-sub000/docs"
	appstock "github.com/Profect-4th-IRUM/product-service-sub000/internal/application/stock"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/infrastructure/config"
	inframq "github.com/Profect-4th-IRUM/product-service-sub000/internal/infrastructure/mq"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/infrastructure/persistence/mysql"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/infrastructure/persistence/redis"
	"github.com/Profect-4th-IRUM/product-service-sub000/internal/interface/http/handler"
	ifacemq "github.com/Profect-4th-IRUM/product-service-sub000/internal/interface/mq"
	"github.com/Profect-4th-IRUM/product-service-sub000/pkg/health"
	"github.com/Profect-4th-IRUM/product-service-sub000/pkg/metrics"
	"github.com/Profect-4th-IRUM/product-service-sub000/pkg/mq"
	"github.com/Profect-4th-IRUM/product-service-sub000/pkg/response"
	"github.com/Profect-4th-IRUM/product-service-sub000/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go中有等价的Wire配置，wire gen后可切换）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d (gRPC健康检查: %d)\n", cfg.Server.Port, cfg.Server.GRPCPort)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. 初始化分布式追踪（可选）
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("product-stock-service", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化追踪失败: %v", err)
		}
		defer shutdown(context.Background())
	}

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 4. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 初始化MQ(发布端降级:连不上时事件只丢日志,不影响主流程)
	var publisher appstock.EventPublisher
	mqPublisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType)
	if err != nil {
		log.Printf("⚠ MQ发布端初始化失败,stock.updated事件将被跳过: %v", err)
	} else {
		defer mqPublisher.Close()
		publisher = inframq.NewStockEventPublisher(mqPublisher)
	}

	// 6. 依赖注入（手动组装）
	// 依赖链: Repository ← UseCase ← Orchestrator ← Handler

	// 基础设施层
	storeRepo := mysql.NewStoreRepository(db)
	optionValueRepo := mysql.NewOptionValueRepository(db, cfg.Database.LockWaitTimeout)
	discountRepo := mysql.NewDiscountRepository(db)
	txManager := mysql.NewTxManager(db)
	idempotencyStore := redis.NewIdempotencyStore(redisClient, cfg.Redis.IdempotencyTTL)

	// 应用层
	retryPolicy := appstock.RetryPolicy{
		MaxAttempts: cfg.Stock.MaxAttempts,
		BaseDelay:   cfg.Stock.BaseDelay,
		MaxDelay:    cfg.Stock.MaxDelay,
	}
	decrementUseCase := appstock.NewDecrementStockUseCase(storeRepo, optionValueRepo, discountRepo, txManager)
	orchestrator := appstock.NewDecrementStockOrchestrator(decrementUseCase, publisher, retryPolicy)
	rollbackUseCase := appstock.NewRollbackStockUseCase(optionValueRepo, txManager, idempotencyStore, retryPolicy)
	getStockUseCase := appstock.NewGetStockUseCase(optionValueRepo)

	// 接口层
	stockHandler := handler.NewStockHandler(orchestrator, rollbackUseCase, getStockUseCase)

	// 7. stock.restore命令消费者(MQ可用时启动)
	restoreConsumer, err := mq.NewConsumer(
		cfg.MQ.URL, cfg.MQ.Exchange, cfg.MQ.ExchangeType,
		cfg.MQ.RestoreQueue, []string{ifacemq.RoutingKeyStockRestore},
	)
	if err != nil {
		log.Printf("⚠ MQ消费端初始化失败,stock.restore命令消费不可用: %v", err)
	} else {
		consumer := ifacemq.NewRestoreConsumer(restoreConsumer, rollbackUseCase)
		defer consumer.Close()
		go func() {
			if err := consumer.Start(ctx); err != nil {
				log.Printf("stock.restore消费者退出: %v", err)
			}
		}()
	}

	// 8. gRPC健康检查服务
	healthSrv := health.New()
	grpcServer := grpc.NewServer()
	healthSrv.Register(grpcServer)
	go func() {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
		if err != nil {
			log.Fatalf("gRPC监听失败: %v", err)
		}
		if err := grpcServer.Serve(lis); err != nil {
			log.Printf("gRPC服务退出: %v", err)
		}
	}()

	// 9. 初始化Gin引擎与路由
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	registerRoutes(r, stockHandler)

	// 依赖全部就绪,切换健康状态
	healthSrv.SetServing()

	// 10. 启动HTTP服务(支持优雅关闭)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		fmt.Printf("\n🚀 服务启动成功！\n")
		fmt.Printf("   库存扣减: POST http://localhost%s/api/v1/stocks/decrease\n", addr)
		fmt.Printf("   库存回滚: POST http://localhost%s/api/v1/stocks/rollback\n", addr)
		fmt.Printf("   库存查询: GET  http://localhost%s/api/v1/stocks/:optionValueID\n", addr)
		fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
		fmt.Printf("   指标:     http://localhost%s/metrics\n\n", addr)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("启动服务失败: %v", err)
		}
	}()

	// 等待退出信号
	<-ctx.Done()
	log.Println("收到退出信号,开始优雅关闭...")

	// 先摘除流量,再关HTTP,最后关gRPC
	healthSrv.SetNotServing()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP服务关闭失败: %v", err)
	}
	grpcServer.GracefulStop()
	log.Println("服务已退出")
}

// registerRoutes 注册路由
func registerRoutes(r *gin.Engine, stockHandler *handler.StockHandler) {
	// 健康检查(HTTP侧,给人和简单探针用;编排系统走gRPC health)
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Swagger文档
	// 访问 http://localhost:8080/swagger/index.html 查看API文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		stocks := v1.Group("/stocks")
		{
			stocks.POST("/decrease", stockHandler.DecreaseStock)
			stocks.POST("/rollback", stockHandler.RollbackStock)
			stocks.GET("/:optionValueID", stockHandler.GetStock)
		}
	}
}
