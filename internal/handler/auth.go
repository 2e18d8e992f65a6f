package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"LeafPanel/internal/model/dto"
	"LeafPanel/internal/service"
	"LeafPanel/pkg/response"
)

// Login 管理员登录，换取 JWT
// POST /api/auth/login
func Login(ctx context.Context, c *app.RequestContext) {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	result, err := service.Auth().Login(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, result)
}

// VerifyToken 校验当前 token 是否有效（认证中间件放行即有效）
// GET /api/auth/verify
func VerifyToken(ctx context.Context, c *app.RequestContext) {
	response.Success(ctx, c, map[string]interface{}{"valid": true})
}
