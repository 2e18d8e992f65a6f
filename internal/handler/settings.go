package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"LeafPanel/internal/model/dto"
	"LeafPanel/internal/service"
	"LeafPanel/pkg/response"
)

// GetCheckinSettings 全局签到设置
// GET /api/checkin-settings
func GetCheckinSettings(ctx context.Context, c *app.RequestContext) {
	settings, err := service.Settings().GetCheckinSettings(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, settings)
}

// UpdateCheckinSettings 更新全局签到设置，调度器下一轮扫描即生效
// PUT /api/checkin-settings
func UpdateCheckinSettings(ctx context.Context, c *app.RequestContext) {
	var req dto.UpdateCheckinSettingsRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	settings, err := service.Settings().UpdateCheckinSettings(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, settings)
}

// GetNotificationSettings 通知设置
// GET /api/notification-settings
func GetNotificationSettings(ctx context.Context, c *app.RequestContext) {
	settings, err := service.Settings().GetNotificationSettings(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, settings)
}

// UpdateNotificationSettings 更新通知设置
// PUT /api/notification-settings
func UpdateNotificationSettings(ctx context.Context, c *app.RequestContext) {
	var req dto.UpdateNotificationSettingsRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	settings, err := service.Settings().UpdateNotificationSettings(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, settings)
}

// SendTestNotification 给所有启用的通知渠道发一条测试消息
// POST /api/notification-settings/test
func SendTestNotification(ctx context.Context, c *app.RequestContext) {
	if err := service.Settings().SendTestNotification(ctx); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{"sent": true})
}
