// Package main 是应用程序入口
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/cache"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/config"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/database"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/logger"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/metrics"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/tracing"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/scheduler"
	reservationService "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/reservation"
)

func main() {
	// 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.GetLogger()

	log.Info("Starting Salmiya Grand Hotel Backend",
		zap.String("version", "1.0.0"),
		zap.String("env", cfg.Server.Mode),
	)

	// 初始化数据库连接
	if err := database.Init(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	db := database.GetDB()
	log.Info("Database connected successfully")

	// 迁移表结构
	if err := database.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	// 初始化 Redis 连接
	if err := cache.Init(&cfg.Redis); err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer cache.Close()
	redisClient := cache.GetClient()
	log.Info("Redis connected successfully")

	// 初始化监控指标
	if cfg.Metrics.Enabled {
		metrics.Init("salmiya_hotel")
	}

	// 初始化分布式追踪
	var tracer *tracing.Tracer
	if cfg.Tracing.Enabled {
		tracer, err = tracing.Init(&tracing.Config{
			ServiceName:    cfg.Server.Name,
			ServiceVersion: "1.0.0",
			Environment:    cfg.Tracing.Environment,
			Endpoint:       cfg.Tracing.Endpoint,
			SampleRate:     cfg.Tracing.SampleRate,
			Enabled:        true,
		})
		if err != nil {
			log.Fatal("Failed to init tracing", zap.Error(err))
		}
		log.Info("Tracing initialized", zap.String("endpoint", cfg.Tracing.Endpoint))
	}

	// 策略缺失时写入默认值，扫描任务依赖策略快照
	policyService := reservationService.NewPolicyService(db, true)
	if err := policyService.EnsureDefaultPolicy(context.Background()); err != nil {
		log.Fatal("Failed to ensure default policy", zap.Error(err))
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.Server.Mode == "test" {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// 创建 Gin 引擎并设置路由
	engine := gin.New()
	deps := setupRouter(engine, cfg, db, redisClient, policyService, tracer)

	// 启动定时任务
	var sched *scheduler.Scheduler
	if cfg.Sweep.Enabled {
		sched = scheduler.NewScheduler()
		taskHandler := scheduler.NewTaskHandler(db, deps.sweepService)
		sched.AddTask("reservation-sweep", cfg.Sweep.IntervalDuration(), taskHandler.SweepReservations)
		sched.AddTask("occupancy-gauge", time.Minute, taskHandler.RefreshOccupancyGauge)
		sched.Start()
	}

	// 创建 HTTP 服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// 在 goroutine 中启动服务器
	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if tracer != nil {
		if err := tracer.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown tracer", zap.Error(err))
		}
	}

	if err := database.Close(); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}

	log.Info("Server exited")
}
