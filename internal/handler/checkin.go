package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"LeafPanel/internal/model/dto"
	"LeafPanel/internal/service"
	"LeafPanel/pkg/errors"
	"LeafPanel/pkg/response"
)

// ManualCheckin 手动触发单个账户签到
// POST /api/checkin/manual/:id
func ManualCheckin(ctx context.Context, c *app.RequestContext) {
	id, err := pathInt64(c, "id", errors.InvalidAccountID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	record, err := service.Checkin().ManualCheckin(ctx, id)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, record)
}

// GetCheckinHistory 分页查询签到历史
// GET /api/checkin/history
func GetCheckinHistory(ctx context.Context, c *app.RequestContext) {
	var query dto.CheckinHistoryQuery
	if err := c.Bind(&query); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	history, err := service.Checkin().History(ctx, query)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, history)
}

// ClearCheckinHistory 清理签到历史
// POST /api/checkin/clear
func ClearCheckinHistory(ctx context.Context, c *app.RequestContext) {
	var req dto.ClearHistoryRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	deleted, err := service.Checkin().ClearHistory(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{"deleted": deleted})
}
