// Package main 是应用程序入口
package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/config"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/handler"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/jwt"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/metrics"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/tracing"
	adminHandler "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/handler/admin"
	authHandler "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/handler/auth"
	billingHandler "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/handler/billing"
	hotelHandler "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/handler/hotel"
	reservationHandler "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/handler/reservation"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/middleware"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/models"
	authService "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/auth"
	billingService "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/billing"
	hotelService "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/hotel"
	reservationService "github.com/shakeelviam/salmiya-grand-hotel-backend/internal/service/reservation"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/pkg/mailer"
)

// routerDeps 路由装配出的服务，main 中定时任务等复用
type routerDeps struct {
	sweepService *reservationService.SweepService
}

// setupRouter 设置路由
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	policyService *reservationService.PolicyService,
	tracer *tracing.Tracer,
) *routerDeps {
	// 创建 JWT 管理器
	jwtManager := jwt.NewManager(&cfg.JWT)

	// 邮件发送器
	var mailSender mailer.Sender = mailer.NopSender{}
	if cfg.Mail.Enabled {
		mailSender = mailer.NewSMTPSender(&cfg.Mail)
	}

	// 初始化服务
	authSvc := authService.NewService(db, jwtManager)
	ledgerSvc := billingService.NewLedgerService(db)
	reservationSvc := reservationService.NewService(db, policyService, mailSender)
	chargeSvc := reservationService.NewServiceChargeService(db)
	sweepSvc := reservationService.NewSweepService(db, reservationSvc, policyService, cfg.Sweep.BatchSize)
	roomSvc := hotelService.NewRoomService(db)
	guestSvc := hotelService.NewGuestService(db)

	// 初始化处理器
	authH := authHandler.NewHandler(authSvc)
	reservationH := reservationHandler.NewHandler(reservationSvc, ledgerSvc)
	serviceOrderH := reservationHandler.NewServiceOrderHandler(chargeSvc)
	roomH := hotelHandler.NewRoomHandler(roomSvc)
	guestH := hotelHandler.NewGuestHandler(guestSvc)
	billingH := billingHandler.NewHandler(ledgerSvc)
	policyH := adminHandler.NewPolicyHandler(policyService)
	sweepH := adminHandler.NewSweepHandler(sweepSvc, cfg.Sweep.SharedSecret)

	// 全局中间件
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(&cfg.CORS))
	r.Use(middleware.AccessLog())
	if cfg.Tracing.Enabled && tracer != nil {
		r.Use(middleware.Tracing(tracer))
	}
	if cfg.Metrics.Enabled {
		r.Use(metrics.Get().GinMiddleware())
	}

	// 健康检查（不需要认证）
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	// 监控指标
	if cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, metrics.Handler())
	}

	v1 := r.Group("/api/v1")
	{
		// 公开接口
		public := v1.Group("")
		public.Use(middleware.IPRateLimit(redisClient, 30, time.Minute))
		{
			public.POST("/auth/login", authH.Login)
		}

		// 外部触发扫描，凭共享密钥
		v1.POST("/ops/sweep", sweepH.Run)

		// 需要员工认证
		staff := v1.Group("")
		staff.Use(middleware.Auth(jwtManager))
		staff.Use(middleware.StaffRateLimit(redisClient, 300, time.Minute))
		{
			staff.GET("/auth/profile", authH.Profile)

			// 住客
			staff.POST("/guests", guestH.CreateGuest)
			staff.GET("/guests/search", guestH.SearchGuests)
			staff.GET("/guests/:id", guestH.GetGuest)
			staff.PUT("/guests/:id", guestH.UpdateGuest)

			// 房型与房间
			staff.GET("/room-types", roomH.ListRoomTypes)
			staff.POST("/room-types", roomH.CreateRoomType)
			staff.PUT("/room-types/:id", roomH.UpdateRoomType)
			staff.GET("/room-types/:id/available-rooms", roomH.ListAvailableRooms)
			staff.GET("/rooms", roomH.ListRooms)
			staff.POST("/rooms", roomH.CreateRoom)
			staff.GET("/rooms/:id", roomH.GetRoom)
			staff.PUT("/rooms/:id/status", roomH.SetRoomStatus)
			staff.PUT("/rooms/:id/active", roomH.SetRoomActive)

			// 预订生命周期
			staff.POST("/reservations", reservationH.Create)
			staff.GET("/reservations", reservationH.List)
			staff.GET("/reservations/:id", reservationH.GetDetail)
			staff.POST("/reservations/:id/confirm", reservationH.Confirm)
			staff.POST("/reservations/:id/check-in", reservationH.CheckIn)
			staff.POST("/reservations/:id/check-out", reservationH.CheckOut)
			staff.POST("/reservations/:id/settle", reservationH.Settle)
			staff.POST("/reservations/:id/extend", reservationH.ExtendStay)
			staff.POST("/reservations/:id/payments", reservationH.RecordPayment)
			staff.GET("/reservations/:id/ledger", reservationH.ListLedger)
			staff.GET("/reservations/:id/activity", reservationH.ListActivity)

			// 客房服务
			staff.POST("/reservations/:id/service-orders", serviceOrderH.ApplyCharge)
			staff.GET("/reservations/:id/service-orders", serviceOrderH.ListByReservation)
			staff.POST("/service-orders/:id/cancel", serviceOrderH.ReverseCharge)

			// 支付方式
			staff.GET("/payment-modes", billingH.ListPaymentModes)

			// 当前策略对所有员工只读
			staff.GET("/policy", policyH.GetPolicy)

			// 敏感操作需要权限
			staff.POST("/reservations/:id/cancel",
				middleware.RequirePermission(authSvc, models.PermissionReservationCancel),
				reservationH.Cancel)
			staff.POST("/reservations/:id/no-show",
				middleware.RequirePermission(authSvc, models.PermissionReservationCancel),
				reservationH.MarkNoShow)
			staff.POST("/reservations/:id/refund",
				middleware.RequirePermission(authSvc, models.PermissionReservationRefund),
				reservationH.Refund)
			staff.POST("/reservations/:id/admin-refund",
				middleware.RequirePermission(authSvc, models.PermissionReservationAdminRefund),
				reservationH.AdminRefund)
			staff.POST("/ledger/:id/approve",
				middleware.RequirePermission(authSvc, models.PermissionReservationAdminRefund),
				billingH.ApproveRefund)
			staff.POST("/ledger/:id/reject",
				middleware.RequirePermission(authSvc, models.PermissionReservationAdminRefund),
				billingH.RejectRefund)
			staff.PUT("/policy",
				middleware.RequirePermission(authSvc, models.PermissionPolicyUpdate),
				policyH.UpdatePolicy)
			staff.POST("/sweep/run",
				middleware.RequirePermission(authSvc, models.PermissionSweepRun),
				wrapSweepRun(sweepSvc))
		}
	}

	// 404 处理
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"code":    404,
			"message": "接口不存在",
		})
	})

	return &routerDeps{sweepService: sweepSvc}
}

// wrapSweepRun 管理端手动触发扫描，走员工认证而非共享密钥
func wrapSweepRun(sweepSvc *reservationService.SweepService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := sweepSvc.Run(c.Request.Context())
		handler.MustSucceed(c, err, result)
	}
}
