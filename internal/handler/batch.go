package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"LeafPanel/internal/model/dto"
	"LeafPanel/internal/service"
	"LeafPanel/pkg/errors"
	"LeafPanel/pkg/response"
)

// CreateBatchTask 为账户创建批量兑换任务
// POST /api/batch-redeem/:id
func CreateBatchTask(ctx context.Context, c *app.RequestContext) {
	id, err := pathInt64(c, "id", errors.InvalidAccountID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req dto.BatchRedeemRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	task, err := service.Batch().CreateTask(ctx, id, req.Codes)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, task)
}

// GetBatchTaskStatus 查询账户当前活动任务的进度
// GET /api/batch-redeem/:id/status
func GetBatchTaskStatus(ctx context.Context, c *app.RequestContext) {
	id, err := pathInt64(c, "id", errors.InvalidAccountID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	task, err := service.Batch().ActiveTaskForAccount(ctx, id)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}
	if task == nil {
		response.Success(ctx, c, nil)
		return
	}

	status, err := service.Batch().Status(ctx, task.PublicID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, status)
}

// GetBatchTask 按任务 ID 查询进度
// GET /api/batch-redeem/tasks/:task_id
func GetBatchTask(ctx context.Context, c *app.RequestContext) {
	taskID, err := pathInt64(c, "task_id", errors.InvalidTaskID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	status, err := service.Batch().Status(ctx, taskID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, status)
}

// PauseBatchTask 暂停任务
// POST /api/batch-redeem/tasks/:task_id/pause
func PauseBatchTask(ctx context.Context, c *app.RequestContext) {
	batchControl(ctx, c, service.Batch().Pause)
}

// ResumeBatchTask 恢复任务
// POST /api/batch-redeem/tasks/:task_id/resume
func ResumeBatchTask(ctx context.Context, c *app.RequestContext) {
	batchControl(ctx, c, service.Batch().Resume)
}

// CancelBatchTask 取消任务
// POST /api/batch-redeem/tasks/:task_id/cancel
func CancelBatchTask(ctx context.Context, c *app.RequestContext) {
	batchControl(ctx, c, service.Batch().Cancel)
}

func batchControl(ctx context.Context, c *app.RequestContext, op func(context.Context, int64) error) {
	taskID, err := pathInt64(c, "task_id", errors.InvalidTaskID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	if err := op(ctx, taskID); err != nil {
		response.Error(ctx, c, err)
		return
	}

	status, err := service.Batch().Status(ctx, taskID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, status)
}
