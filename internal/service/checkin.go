package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

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
	checkinService *CheckinService
	checkinOnce    sync.Once
)

func Checkin() *CheckinService {
	checkinOnce.Do(func() {
		checkinService = &CheckinService{}
	})
	return checkinService
}

type CheckinService struct{}

// ExecuteCheckin 为账号跑一次完整签到（含重试），落一条历史记录
// retryCount 是失败后的额外尝试次数，两次尝试间固定等待 CheckinRetryBase
func (s *CheckinService) ExecuteCheckin(ctx context.Context, account *model.Account, retryCount int) (*model.CheckinRecord, error) {
	creds, err := Account().Credentials(account)
	if err != nil {
		return nil, err
	}

	loc := config.Cfg.Location()
	started := time.Now()

	var result *leaflow.CheckinResult
	var lastErr error
	attempts := 0

	for attempt := 0; attempt <= retryCount; attempt++ {
		if attempt > 0 {
			metrics.RecordCheckinRetry("remote_failure")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(utils.RetryBackoff(attempt, config.Cfg.CheckinRetryBase)):
			}
		}

		attempts = attempt
		result, lastErr = leaflow.GetClient().Checkin(ctx, creds, account.Name)
		if lastErr != nil {
			logger.Logger.Warn("checkin attempt failed",
				zap.Int64("account_id", account.ID),
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			continue
		}
		if result.Success {
			break
		}
	}

	success := lastErr == nil && result != nil && result.Success
	message := ""
	switch {
	case result != nil:
		message = result.Message
	case lastErr != nil:
		message = lastErr.Error()
	}

	record := model.CheckinRecord{
		AccountID:   account.ID,
		Success:     success,
		Message:     message,
		CheckinDate: utils.ServiceDay(time.Now(), loc),
		RetryTimes:  attempts,
	}
	if err := database.DB().WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("save checkin record: %w", err)
	}

	if success {
		day := record.CheckinDate
		if err := database.DB().WithContext(ctx).Model(account).
			Update("last_checkin_date", day).Error; err != nil {
			logger.Logger.Error("failed to mark account checked in",
				zap.Int64("account_id", account.ID),
				zap.Error(err),
			)
		}
		metrics.RecordCheckin("success", time.Since(started).Seconds())
	} else {
		metrics.RecordCheckin("failed", time.Since(started).Seconds())
	}

	s.notifyResult(account.Name, success, message, attempts)

	return &record, nil
}

func (s *CheckinService) notifyResult(accountName string, success bool, message string, attempts int) {
	title := "签到成功"
	if !success {
		title = "签到失败"
	}

	content := fmt.Sprintf("账号: %s\n结果: %s", accountName, message)
	if attempts > 0 {
		content = fmt.Sprintf("%s\n重试次数: %d", content, attempts)
	}

	queue.PublishNotifyEvent("checkin_result", accountName, title, content)
}

// ManualCheckin 手动触发一次签到，与调度签到共用单飞锁
func (s *CheckinService) ManualCheckin(ctx context.Context, accountID int64) (*model.CheckinRecord, error) {
	account, err := Account().Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	lockKey := cache.CheckinLockKey(accountID)
	acquired, err := cache.TryLock(ctx, lockKey, cache.CheckinLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire checkin lock: %w", err)
	}
	if !acquired {
		return nil, errors.CheckinAlreadyRunning
	}
	defer func() {
		if err := cache.Unlock(context.WithoutCancel(ctx), lockKey); err != nil {
			logger.Logger.Warn("failed to release checkin lock", zap.Int64("account_id", accountID), zap.Error(err))
		}
	}()

	settings, err := Settings().GetCheckinSettings(ctx)
	if err != nil {
		return nil, err
	}

	retryCount := account.RetryCount
	if retryCount == 0 {
		retryCount = settings.RetryCount
	}

	return s.ExecuteCheckin(ctx, account, retryCount)
}

// History 签到历史分页，带账号名
func (s *CheckinService) History(ctx context.Context, q dto.CheckinHistoryQuery) (*dto.CheckinHistoryResponse, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 || q.PageSize > 100 {
		q.PageSize = 20
	}

	db := database.DB().WithContext(ctx).Model(&model.CheckinRecord{})
	if q.AccountID > 0 {
		db = db.Where("account_id = ?", q.AccountID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count checkin history: %w", err)
	}

	var records []model.CheckinRecord
	if err := db.Order("id DESC").
		Offset((q.Page - 1) * q.PageSize).
		Limit(q.PageSize).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list checkin history: %w", err)
	}

	names, err := s.accountNames(ctx, records)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CheckinRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, dto.CheckinRecordResponse{
			ID:          r.ID,
			AccountID:   r.AccountID,
			AccountName: names[r.AccountID],
			Success:     r.Success,
			Message:     r.Message,
			CheckinDate: r.CheckinDate.Format("2006-01-02"),
			RetryTimes:  r.RetryTimes,
			CreatedAt:   r.CreatedAt,
		})
	}

	return &dto.CheckinHistoryResponse{Total: total, Records: out}, nil
}

func (s *CheckinService) accountNames(ctx context.Context, records []model.CheckinRecord) (map[int64]string, error) {
	ids := make([]int64, 0, len(records))
	seen := make(map[int64]struct{}, len(records))
	for _, r := range records {
		if _, ok := seen[r.AccountID]; ok {
			continue
		}
		seen[r.AccountID] = struct{}{}
		ids = append(ids, r.AccountID)
	}

	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var accounts []model.Account
	if err := database.DB().WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("resolve account names: %w", err)
	}
	for _, a := range accounts {
		names[a.ID] = a.Name
	}
	return names, nil
}

// ClearHistory 清理签到历史
// type=all 全删，type=before_days 删除 N 天前的记录
func (s *CheckinService) ClearHistory(ctx context.Context, req dto.ClearHistoryRequest) (int64, error) {
	db := database.DB().WithContext(ctx)

	switch req.Type {
	case "all":
		result := db.Unscoped().Where("1 = 1").Delete(&model.CheckinRecord{})
		return result.RowsAffected, result.Error
	case "before_days":
		if req.BeforeDays <= 0 {
			return 0, errors.InvalidClearType
		}
		cutoff := time.Now().AddDate(0, 0, -req.BeforeDays)
		result := db.Unscoped().Where("created_at < ?", cutoff).Delete(&model.CheckinRecord{})
		return result.RowsAffected, result.Error
	default:
		return 0, errors.InvalidClearType
	}
}
