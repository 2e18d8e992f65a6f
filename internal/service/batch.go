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
	"LeafPanel/pkg/errors"
	"LeafPanel/pkg/logger"
	"LeafPanel/pkg/snowflake"
	"LeafPanel/storage/database"
	"LeafPanel/utils"
)

var (
	batchService *BatchService
	batchOnce    sync.Once
)

func Batch() *BatchService {
	batchOnce.Do(func() {
		batchService = &BatchService{}
	})
	return batchService
}

type BatchService struct{}

// SanitizeCodes 去掉空白项并裁剪首尾空格，保持顺序
func SanitizeCodes(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, code := range raw {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		out = append(out, code)
	}
	return out
}

// CreateTask 创建批量兑换任务
// 一个账号同一时刻最多一个非终态任务，冲突返回业务错误
func (s *BatchService) CreateTask(ctx context.Context, accountID int64, rawCodes []string) (*dto.BatchTaskResponse, error) {
	codes := SanitizeCodes(rawCodes)
	if len(codes) == 0 {
		return nil, errors.EmptyCodeList
	}

	account, err := Account().Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	publicID, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("generate task ID: %w", err)
	}

	// 首码的执行时间由冷却推导，立即可兑时设为当前时间
	last, err := Redeem().LastSuccessAt(ctx, accountID)
	if err != nil {
		return nil, err
	}
	next := utils.NextEligibleTime(last, config.Cfg.RedeemCooldown)
	now := time.Now()
	if next.Before(now) {
		next = now
	}

	task := model.BatchRedeemTask{
		PublicID:      publicID,
		AccountID:     accountID,
		Status:        model.BatchTaskStatusPending,
		Codes:         codes,
		TotalCount:    len(codes),
		NextExecuteAt: &next,
	}

	// 冲突检查和插入同一个事务，避免并发创建双任务
	err = database.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&model.BatchRedeemTask{}).
			Where("account_id = ? AND status IN ?", accountID,
				[]model.BatchTaskStatus{model.BatchTaskStatusPending, model.BatchTaskStatusRunning, model.BatchTaskStatusPaused}).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return errors.BatchTaskConflict
		}
		return tx.Create(&task).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Logger.Info("batch redeem task created",
		zap.Int64("task_id", task.PublicID),
		zap.Int64("account_id", accountID),
		zap.String("account", account.Name),
		zap.Int("codes", len(codes)),
	)

	resp := toBatchTaskResponse(&task)
	return &resp, nil
}

// GetByPublicID 按对外 ID 取任务
func (s *BatchService) GetByPublicID(ctx context.Context, publicID int64) (*model.BatchRedeemTask, error) {
	var task model.BatchRedeemTask
	err := database.DB().WithContext(ctx).Where("public_id = ?", publicID).First(&task).Error
	if err == gorm.ErrRecordNotFound {
		return nil, errors.BatchTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get batch task %d: %w", publicID, err)
	}
	return &task, nil
}

// ActiveTaskForAccount 账号当前的非终态任务，没有则返回 nil
func (s *BatchService) ActiveTaskForAccount(ctx context.Context, accountID int64) (*model.BatchRedeemTask, error) {
	var task model.BatchRedeemTask
	err := database.DB().WithContext(ctx).
		Where("account_id = ? AND status IN ?", accountID,
			[]model.BatchTaskStatus{model.BatchTaskStatusPending, model.BatchTaskStatusRunning, model.BatchTaskStatusPaused}).
		Order("id DESC").
		First(&task).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active batch task: %w", err)
	}
	return &task, nil
}

// Pause 暂停运行中的任务，安全点生效
func (s *BatchService) Pause(ctx context.Context, publicID int64) error {
	return s.transition(ctx, publicID, model.BatchTaskStatusPaused, cache.BatchControlPause)
}

// Resume 恢复已暂停的任务
func (s *BatchService) Resume(ctx context.Context, publicID int64) error {
	return s.transition(ctx, publicID, model.BatchTaskStatusRunning, cache.BatchControlResume)
}

// Cancel 取消任务，已处理的进度保留
func (s *BatchService) Cancel(ctx context.Context, publicID int64) error {
	return s.transition(ctx, publicID, model.BatchTaskStatusCancelled, cache.BatchControlCancel)
}

func (s *BatchService) transition(ctx context.Context, publicID int64, to model.BatchTaskStatus, action cache.BatchControlAction) error {
	task, err := s.GetByPublicID(ctx, publicID)
	if err != nil {
		return err
	}

	if !task.Status.CanTransition(to) {
		switch {
		case task.Status.IsTerminal():
			return errors.BatchTaskFinished
		case to == model.BatchTaskStatusPaused:
			return errors.BatchTaskNotRunning
		case to == model.BatchTaskStatusRunning:
			return errors.BatchTaskNotPaused
		default:
			return errors.BatchTaskFinished
		}
	}

	updates := map[string]interface{}{"status": to}
	if to == model.BatchTaskStatusCancelled {
		now := time.Now()
		updates["completed_at"] = &now
		updates["next_execute_at"] = nil
	}

	// 乐观锁：只允许从当前观察到的状态迁移
	result := database.DB().WithContext(ctx).Model(&model.BatchRedeemTask{}).
		Where("id = ? AND status = ?", task.ID, task.Status).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("update batch task status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.BatchTaskFinished
	}

	if err := cache.PublishBatchControl(ctx, task.ID, action); err != nil {
		// 信号丢了也没关系，worker 在下一个安全点会读到新状态
		logger.Logger.Warn("failed to publish batch control signal",
			zap.Int64("task_id", task.PublicID),
			zap.String("action", string(action)),
			zap.Error(err),
		)
	}

	logger.Logger.Info("batch task transition",
		zap.Int64("task_id", task.PublicID),
		zap.String("from", string(task.Status)),
		zap.String("to", string(to)),
	)
	return nil
}

// Status 任务状态快照，逐码进度由 codes 与 redeem_history 对齐得出
func (s *BatchService) Status(ctx context.Context, publicID int64) (*dto.BatchTaskStatusResponse, error) {
	task, err := s.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	// 只取任务创建后的记录，避免历史同码记录串进度
	var records []model.RedeemRecord
	if err := database.DB().WithContext(ctx).
		Where("account_id = ? AND created_at >= ?", task.AccountID, task.CreatedAt).
		Order("id").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load redeem records for task: %w", err)
	}

	progress := assembleProgress(task, records)

	return &dto.BatchTaskStatusResponse{
		BatchTaskResponse: toBatchTaskResponse(task),
		Progress:          progress,
	}, nil
}

// assembleProgress 按索引对齐兑换码与结果
// current_index 之前的码找到记录则用记录，找不到视为失败（try-later 之外的异常）
func assembleProgress(task *model.BatchRedeemTask, records []model.RedeemRecord) []dto.CodeProgress {
	byCode := make(map[string][]model.RedeemRecord)
	for _, r := range records {
		byCode[r.Code] = append(byCode[r.Code], r)
	}

	progress := make([]dto.CodeProgress, 0, len(task.Codes))
	for i, code := range task.Codes {
		entry := dto.CodeProgress{Code: code}

		switch {
		case i < task.CurrentIndex:
			if rs := byCode[code]; len(rs) > 0 {
				r := rs[0]
				byCode[code] = rs[1:]
				if r.Success {
					entry.Status = "success"
					entry.Amount = r.Amount
				} else {
					entry.Status = "failed"
				}
				entry.Message = r.Message
			} else {
				entry.Status = "failed"
			}
		case i == task.CurrentIndex && task.Status == model.BatchTaskStatusRunning:
			entry.Status = "processing"
		default:
			entry.Status = "waiting"
		}

		progress = append(progress, entry)
	}
	return progress
}

func toBatchTaskResponse(t *model.BatchRedeemTask) dto.BatchTaskResponse {
	return dto.BatchTaskResponse{
		TaskID:        fmt.Sprintf("%d", t.PublicID),
		AccountID:     t.AccountID,
		Status:        string(t.Status),
		TotalCount:    t.TotalCount,
		CurrentIndex:  t.CurrentIndex,
		SuccessCount:  t.SuccessCount,
		FailCount:     t.FailCount,
		NextExecuteAt: t.NextExecuteAt,
		CompletedAt:   t.CompletedAt,
		CreatedAt:     t.CreatedAt,
	}
}
