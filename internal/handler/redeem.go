package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"LeafPanel/internal/model/dto"
	"LeafPanel/internal/service"
	"LeafPanel/pkg/errors"
	"LeafPanel/pkg/response"
)

// RedeemCode 单码手动兑换，受账户冷却窗口约束
// POST /api/redeem/:id
func RedeemCode(ctx context.Context, c *app.RequestContext) {
	id, err := pathInt64(c, "id", errors.InvalidAccountID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req dto.RedeemRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Redeem().ManualRedeem(ctx, id, req.Code)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}
