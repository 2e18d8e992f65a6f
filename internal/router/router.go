package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"LeafPanel/internal/handler"
	"LeafPanel/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RequestIDMiddleware())
	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	api := h.Group("/api")

	// 认证相关路由
	auth := api.Group("/auth")
	{
		auth.POST("/login", middleware.AuthRateLimitMiddleware(), handler.Login)
		auth.GET("/verify", middleware.AuthMiddleware(), handler.VerifyToken)
	}

	// 账户管理
	accounts := api.Group("/accounts")
	accounts.Use(middleware.AuthMiddleware())
	{
		accounts.GET("", handler.ListAccounts)
		accounts.POST("", handler.CreateAccount)
		accounts.PUT("/:id", handler.UpdateAccount)
		accounts.DELETE("/:id", handler.DeleteAccount)
		accounts.POST("/:id/refresh-balance", handler.RefreshAccountBalance)
		accounts.POST("/refresh-all-balance", handler.RefreshAllBalances)
	}

	// 签到
	checkin := api.Group("/checkin")
	checkin.Use(middleware.AuthMiddleware())
	{
		checkin.POST("/manual/:id", handler.ManualCheckin)
		checkin.GET("/history", handler.GetCheckinHistory)
		checkin.POST("/clear", handler.ClearCheckinHistory)
	}

	// 全局签到设置
	checkinSettings := api.Group("/checkin-settings")
	checkinSettings.Use(middleware.AuthMiddleware())
	{
		checkinSettings.GET("", handler.GetCheckinSettings)
		checkinSettings.PUT("", handler.UpdateCheckinSettings)
	}

	// 通知设置
	notificationSettings := api.Group("/notification-settings")
	notificationSettings.Use(middleware.AuthMiddleware())
	{
		notificationSettings.GET("", handler.GetNotificationSettings)
		notificationSettings.PUT("", handler.UpdateNotificationSettings)
		notificationSettings.POST("/test", handler.SendTestNotification)
	}

	// 单码兑换
	redeem := api.Group("/redeem")
	redeem.Use(middleware.AuthMiddleware())
	{
		redeem.POST("/:id", handler.RedeemCode)
	}

	// 批量兑换
	batch := api.Group("/batch-redeem")
	batch.Use(middleware.AuthMiddleware())
	{
		batch.POST("/:id", handler.CreateBatchTask)
		batch.GET("/:id/status", handler.GetBatchTaskStatus)
		batch.GET("/tasks/:task_id", handler.GetBatchTask)
		batch.POST("/tasks/:task_id/pause", handler.PauseBatchTask)
		batch.POST("/tasks/:task_id/resume", handler.ResumeBatchTask)
		batch.POST("/tasks/:task_id/cancel", handler.CancelBatchTask)
	}

	// 邀请码
	invitations := api.Group("/invitations")
	invitations.Use(middleware.AuthMiddleware())
	{
		invitations.GET("/:id", handler.ListInvitations)
		invitations.POST("/:id", handler.CreateInvitation)
	}
}
