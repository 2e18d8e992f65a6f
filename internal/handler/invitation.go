package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"LeafPanel/internal/model/dto"
	"LeafPanel/internal/service"
	"LeafPanel/pkg/errors"
	"LeafPanel/pkg/response"
)

// ListInvitations 账户的邀请码列表，refresh=true 跳过缓存
// GET /api/invitations/:id
func ListInvitations(ctx context.Context, c *app.RequestContext) {
	id, err := pathInt64(c, "id", errors.InvalidAccountID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	refresh := c.Query("refresh") == "true"

	list, err := service.Invitation().List(ctx, id, refresh)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, list)
}

// CreateInvitation 创建邀请码
// POST /api/invitations/:id
func CreateInvitation(ctx context.Context, c *app.RequestContext) {
	id, err := pathInt64(c, "id", errors.InvalidAccountID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req dto.CreateInvitationRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	code, err := service.Invitation().Create(ctx, id, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, code)
}
