package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"LeafPanel/internal/model"
	"LeafPanel/internal/model/dto"
	"LeafPanel/pkg/errors"
	"LeafPanel/pkg/leaflow"
	"LeafPanel/pkg/logger"
	"LeafPanel/storage/database"
)

var (
	accountService *AccountService
	accountOnce    sync.Once
)

func Account() *AccountService {
	accountOnce.Do(func() {
		accountService = &AccountService{}
	})
	return accountService
}

type AccountService struct{}

// List 全部账号
func (s *AccountService) List(ctx context.Context) ([]dto.AccountResponse, error) {
	var accounts []model.Account
	if err := database.DB().WithContext(ctx).Order("id").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	out := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, toAccountResponse(&accounts[i]))
	}
	return out, nil
}

// Get 按 ID 取账号
func (s *AccountService) Get(ctx context.Context, id int64) (*model.Account, error) {
	var account model.Account
	err := database.DB().WithContext(ctx).First(&account, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.AccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get account %d: %w", id, err)
	}
	return &account, nil
}

// Create 新增账号，凭证先解析校验再入库
func (s *AccountService) Create(ctx context.Context, req dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	creds, err := leaflow.ParseCookieString(req.CookieData)
	if err != nil {
		return nil, errors.InvalidCookieData
	}

	tokenData, err := leaflow.MarshalCredentials(creds)
	if err != nil {
		return nil, errors.InvalidCookieData
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	account := model.Account{
		Name:      req.Name,
		TokenData: tokenData,
		Enabled:   enabled,
	}

	var count int64
	if err := database.DB().WithContext(ctx).Model(&model.Account{}).Where("name = ?", req.Name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check account name: %w", err)
	}
	if count > 0 {
		return nil, errors.AccountNameTaken
	}

	if err := database.DB().WithContext(ctx).Create(&account).Error; err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	logger.Logger.Info("account created", zap.Int64("account_id", account.ID), zap.String("name", account.Name))

	resp := toAccountResponse(&account)
	return &resp, nil
}

// Update 更新账号，仅提交的字段生效
func (s *AccountService) Update(ctx context.Context, id int64, req dto.UpdateAccountRequest) (*dto.AccountResponse, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}

	if req.Name != nil && *req.Name != account.Name {
		var count int64
		if err := database.DB().WithContext(ctx).Model(&model.Account{}).
			Where("name = ? AND id <> ?", *req.Name, id).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("check account name: %w", err)
		}
		if count > 0 {
			return nil, errors.AccountNameTaken
		}
		updates["name"] = *req.Name
	}

	if req.CookieData != nil {
		creds, err := leaflow.ParseCookieString(*req.CookieData)
		if err != nil {
			return nil, errors.InvalidCookieData
		}
		tokenData, err := leaflow.MarshalCredentials(creds)
		if err != nil {
			return nil, errors.InvalidCookieData
		}
		updates["token_data"] = tokenData
	}

	if req.Enabled != nil {
		updates["enabled"] = *req.Enabled
	}
	if req.CheckinTimeStart != nil {
		updates["checkin_time_start"] = *req.CheckinTimeStart
	}
	if req.CheckinTimeEnd != nil {
		updates["checkin_time_end"] = *req.CheckinTimeEnd
	}
	if req.RetryCount != nil {
		if *req.RetryCount < 0 || *req.RetryCount > 5 {
			return nil, errors.InvalidRetryCount
		}
		updates["retry_count"] = *req.RetryCount
	}

	if len(updates) > 0 {
		if err := database.DB().WithContext(ctx).Model(account).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update account %d: %w", id, err)
		}
	}

	account, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toAccountResponse(account)
	return &resp, nil
}

// Delete 删除账号，历史记录级联由软删除承接
func (s *AccountService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := database.DB().WithContext(ctx).Delete(&model.Account{}, id).Error; err != nil {
		return fmt.Errorf("delete account %d: %w", id, err)
	}

	logger.Logger.Info("account deleted", zap.Int64("account_id", id))
	return nil
}

// Credentials 解包账号凭证
func (s *AccountService) Credentials(account *model.Account) (leaflow.Credentials, error) {
	creds, err := leaflow.UnmarshalCredentials(account.TokenData)
	if err != nil {
		return leaflow.Credentials{}, errors.InvalidCookieData
	}
	return creds, nil
}

// RefreshBalance 拉取远端余额并回填缓存列
func (s *AccountService) RefreshBalance(ctx context.Context, id int64) (*dto.AccountResponse, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	creds, err := s.Credentials(account)
	if err != nil {
		return nil, err
	}

	info, err := leaflow.GetClient().FetchBalance(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("fetch balance for account %d: %w", id, err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"leaflow_uid":        info.UID,
		"leaflow_name":       info.Name,
		"leaflow_email":      info.Email,
		"registered_at":      info.RegisteredAt,
		"current_balance":    info.CurrentBalance,
		"total_consumed":     info.TotalConsumed,
		"balance_updated_at": now,
	}
	if err := database.DB().WithContext(ctx).Model(account).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("save balance for account %d: %w", id, err)
	}

	account, err = s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toAccountResponse(account)
	return &resp, nil
}

// RefreshAllBalances 逐个刷新启用账号的余额，单个失败不中断
func (s *AccountService) RefreshAllBalances(ctx context.Context) (refreshed int, failed int, err error) {
	var accounts []model.Account
	if err := database.DB().WithContext(ctx).Where("enabled = ?", true).Find(&accounts).Error; err != nil {
		return 0, 0, fmt.Errorf("list enabled accounts: %w", err)
	}

	for i := range accounts {
		if _, err := s.RefreshBalance(ctx, accounts[i].ID); err != nil {
			logger.Logger.Warn("refresh balance failed",
				zap.Int64("account_id", accounts[i].ID),
				zap.Error(err),
			)
			failed++
			continue
		}
		refreshed++
	}
	return refreshed, failed, nil
}

func toAccountResponse(a *model.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:               a.ID,
		Name:             a.Name,
		Enabled:          a.Enabled,
		CheckinTimeStart: a.CheckinTimeStart,
		CheckinTimeEnd:   a.CheckinTimeEnd,
		RetryCount:       a.RetryCount,
		LastCheckinDate:  a.LastCheckinDate,
		LeaflowName:      a.LeaflowName,
		LeaflowEmail:     a.LeaflowEmail,
		CurrentBalance:   a.CurrentBalance,
		TotalConsumed:    a.TotalConsumed,
		BalanceUpdatedAt: a.BalanceUpdatedAt,
		CreatedAt:        a.CreatedAt,
	}
}
