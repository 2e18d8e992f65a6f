package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"LeafPanel/config"
	"LeafPanel/internal/cache"
	"LeafPanel/internal/model"
	"LeafPanel/internal/model/dto"
	"LeafPanel/internal/queue"
	"LeafPanel/pkg/errors"
	"LeafPanel/pkg/leaflow"
	"LeafPanel/pkg/logger"
	"LeafPanel/pkg/metrics"
	"LeafPanel/storage/database"
	"LeafPanel/utils"
)

var (
	redeemService *RedeemService
	redeemOnce    sync.Once
)

func Redeem() *RedeemService {
	redeemOnce.Do(func() {
		redeemService = &RedeemService{}
	})
	return redeemService
}

type RedeemService struct{}

// LastSuccessAt 账号最近一次成功兑换的时间，冷却计时的唯一依据
func (s *RedeemService) LastSuccessAt(ctx context.Context, accountID int64) (*time.Time, error) {
	var record model.RedeemRecord
	err := database.DB().WithContext(ctx).
		Where("account_id = ? AND success = ?", accountID, true).
		Order("created_at DESC").
		First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query last successful redeem: %w", err)
	}
	t := record.CreatedAt
	return &t, nil
}

// CooldownRemaining 距离账号下一次可兑换还差多久
func (s *RedeemService) CooldownRemaining(ctx context.Context, accountID int64) (time.Duration, error) {
	last, err := s.LastSuccessAt(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return utils.CooldownRemaining(last, config.Cfg.RedeemCooldown, time.Now()), nil
}

// ExecuteRedeem 兑换单个码并落历史记录，调用方负责锁与冷却判断
func (s *RedeemService) ExecuteRedeem(ctx context.Context, account *model.Account, code string) (*leaflow.RedeemResult, error) {
	creds, err := Account().Credentials(account)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	result, callErr := leaflow.GetClient().Redeem(ctx, creds, code)
	if callErr != nil {
		// 网络层失败与远端拒绝同权：码被消耗，历史里留一条带原因的失败记录
		logger.Logger.Warn("redeem request failed",
			zap.Int64("account_id", account.ID),
			zap.Error(callErr),
		)
		result = redeemFailure(callErr)
	}

	// 远端要求稍后再试不计入历史，码未被消耗
	if result.TryLater {
		metrics.RecordRedeem("try_later", time.Since(started).Seconds())
		logger.Logger.Info("remote asked to retry later",
			zap.Int64("account_id", account.ID),
			zap.String("message", result.Message),
		)
		return result, nil
	}

	record := model.RedeemRecord{
		AccountID: account.ID,
		Code:      code,
		Success:   result.Success,
		Amount:    result.Amount,
		Message:   result.Message,
	}
	if err := database.DB().WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("save redeem record: %w", err)
	}

	status := "failed"
	switch {
	case callErr != nil:
		status = "error"
	case result.Success:
		status = "success"
	}
	metrics.RecordRedeem(status, time.Since(started).Seconds())

	return result, nil
}

// redeemFailure 把请求层错误折算成一次失败的兑换结果
func redeemFailure(err error) *leaflow.RedeemResult {
	return &leaflow.RedeemResult{Message: err.Error()}
}

// ManualRedeem 手动兑换一个码
// 与批量任务共用账号兑换锁和冷却时钟，互相不可穿插
func (s *RedeemService) ManualRedeem(ctx context.Context, accountID int64, code string) (*dto.RedeemResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.EmptyCode
	}

	account, err := Account().Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	lockKey := cache.RedeemLockKey(accountID)
	acquired, err := cache.TryLock(ctx, lockKey, cache.RedeemLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire redeem lock: %w", err)
	}
	if !acquired {
		return nil, errors.AccountBusy
	}
	defer func() {
		if err := cache.Unlock(context.WithoutCancel(ctx), lockKey); err != nil {
			logger.Logger.Warn("failed to release redeem lock", zap.Int64("account_id", accountID), zap.Error(err))
		}
	}()

	remaining, err := s.CooldownRemaining(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if remaining > 0 {
		return nil, errors.RedeemCooldownActive
	}

	result, err := s.ExecuteRedeem(ctx, account, code)
	if err != nil {
		return nil, err
	}

	if result.Success {
		queue.PublishNotifyEvent("redeem_result", account.Name, "兑换成功",
			fmt.Sprintf("账号: %s\n金额: %s\n%s", account.Name, result.Amount, result.Message))
	}

	return &dto.RedeemResponse{
		Success: result.Success,
		Amount:  result.Amount,
		Message: result.Message,
	}, nil
}
