package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"LeafPanel/internal/model/dto"
	"LeafPanel/internal/service"
	"LeafPanel/pkg/errors"
	"LeafPanel/pkg/response"
)

// ListAccounts 账户列表
// GET /api/accounts
func ListAccounts(ctx context.Context, c *app.RequestContext) {
	accounts, err := service.Account().List(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, accounts)
}

// CreateAccount 新建账户
// POST /api/accounts
func CreateAccount(ctx context.Context, c *app.RequestContext) {
	var req dto.CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	account, err := service.Account().Create(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, account)
}

// UpdateAccount 更新账户
// PUT /api/accounts/:id
func UpdateAccount(ctx context.Context, c *app.RequestContext) {
	id, err := pathInt64(c, "id", errors.InvalidAccountID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	var req dto.UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	account, err := service.Account().Update(ctx, id, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, account)
}

// DeleteAccount 删除账户
// DELETE /api/accounts/:id
func DeleteAccount(ctx context.Context, c *app.RequestContext) {
	id, err := pathInt64(c, "id", errors.InvalidAccountID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	if err := service.Account().Delete(ctx, id); err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{"deleted": true})
}

// RefreshAccountBalance 回源刷新单个账户的余额
// POST /api/accounts/:id/refresh-balance
func RefreshAccountBalance(ctx context.Context, c *app.RequestContext) {
	id, err := pathInt64(c, "id", errors.InvalidAccountID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	account, err := service.Account().RefreshBalance(ctx, id)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, account)
}

// RefreshAllBalances 刷新全部启用账户的余额
// POST /api/accounts/refresh-all-balance
func RefreshAllBalances(ctx context.Context, c *app.RequestContext) {
	refreshed, failed, err := service.Account().RefreshAllBalances(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, map[string]interface{}{
		"refreshed": refreshed,
		"failed":    failed,
	})
}
