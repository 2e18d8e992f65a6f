package schedule

// 批量兑换引擎：每个活动任务一个 worker 顺序兑换
// 同一账户两次成功兑换之间必须隔满冷却窗口，进度和下次执行时间落库，崩溃后按库里状态恢复
// 暂停/恢复/取消由 API 进程改库后经 Redis pub/sub 通知，信号只用来打断等待，库里的状态才是准绳

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"LeafPanel/config"
	"LeafPanel/internal/cache"
	"LeafPanel/internal/model"
	"LeafPanel/internal/queue"
	"LeafPanel/internal/service"
	"LeafPanel/pkg/errors"
	"LeafPanel/pkg/logger"
	"LeafPanel/pkg/metrics"
	"LeafPanel/storage/database"
)

var (
	batchEngineOnce sync.Once
	batchEngineInst *BatchEngine
)

type BatchEngine struct {
	logger  *zap.Logger
	mu      sync.Mutex
	workers map[int64]chan cache.BatchControlAction // task.ID -> 信号通道
	wg      sync.WaitGroup
}

func GetBatchEngine() *BatchEngine {
	batchEngineOnce.Do(func() {
		batchEngineInst = &BatchEngine{
			logger:  logger.Logger,
			workers: make(map[int64]chan cache.BatchControlAction),
		}
	})
	return batchEngineInst
}

// Run 启动引擎：恢复存量任务，然后监听控制信号直到 ctx 取消
// 周期兜底扫描覆盖信号丢失和跨进程恢复的情况
func (e *BatchEngine) Run(ctx context.Context) {
	if err := e.recover(ctx); err != nil {
		e.logger.Error("Batch engine recovery failed", zap.Error(err))
	}

	sub := cache.SubscribeBatchControl(ctx)
	defer sub.Close()

	rescan := time.NewTicker(time.Minute)
	defer rescan.Stop()

	e.logger.Info("Batch redeem engine started")

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Batch redeem engine stopping, waiting for workers")
			e.wg.Wait()
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				// 订阅断开后靠兜底扫描继续工作
				e.logger.Warn("Batch control subscription closed")
				sub = cache.SubscribeBatchControl(ctx)
				continue
			}
			e.handleSignal(ctx, msg.Payload)
		case <-rescan.C:
			if err := e.recover(ctx); err != nil {
				e.logger.Warn("Batch engine rescan failed", zap.Error(err))
			}
		}
	}
}

// recover 找出没有 worker 的待执行/执行中任务并拉起
func (e *BatchEngine) recover(ctx context.Context) error {
	var tasks []model.BatchRedeemTask
	if err := database.DB().WithContext(ctx).
		Where("status IN ?", []model.BatchTaskStatus{model.BatchTaskStatusPending, model.BatchTaskStatusRunning}).
		Find(&tasks).Error; err != nil {
		return fmt.Errorf("query active batch tasks: %w", err)
	}

	for i := range tasks {
		e.spawn(ctx, tasks[i].ID)
	}
	return nil
}

func (e *BatchEngine) handleSignal(ctx context.Context, payload string) {
	sig, err := cache.ParseBatchControlSignal(payload)
	if err != nil {
		e.logger.Warn("Bad batch control signal", zap.String("payload", payload), zap.Error(err))
		return
	}

	e.logger.Info("Batch control signal received",
		zap.Int64("task_id", sig.TaskID),
		zap.String("action", string(sig.Action)),
	)

	switch sig.Action {
	case cache.BatchControlResume:
		// 恢复的任务可能没有存活的 worker
		e.spawn(ctx, sig.TaskID)
	case cache.BatchControlPause, cache.BatchControlCancel:
		e.mu.Lock()
		ch, ok := e.workers[sig.TaskID]
		e.mu.Unlock()
		if ok {
			select {
			case ch <- sig.Action:
			default:
				// worker 正在干活，到下一个安全点自然会读库
			}
		}
	}
}

// spawn 为任务拉起 worker，已有 worker 时先发个信号打断它的等待
func (e *BatchEngine) spawn(ctx context.Context, taskID int64) {
	e.mu.Lock()
	if ch, ok := e.workers[taskID]; ok {
		e.mu.Unlock()
		select {
		case ch <- cache.BatchControlResume:
		default:
		}
		return
	}
	ch := make(chan cache.BatchControlAction, 4)
	e.workers[taskID] = ch
	e.mu.Unlock()

	e.wg.Add(1)
	metrics.AddBatchActiveTask()
	go func() {
		defer func() {
			e.mu.Lock()
			delete(e.workers, taskID)
			e.mu.Unlock()
			metrics.SubtractBatchActiveTask()
			e.wg.Done()
		}()
		e.runWorker(ctx, taskID, ch)
	}()
}

// runWorker 单任务循环：读库 → 等到执行时刻 → 兑换一个码 → 落库，直到终态或暂停
func (e *BatchEngine) runWorker(ctx context.Context, taskID int64, signals <-chan cache.BatchControlAction) {
	log := e.logger.With(zap.Int64("task_id", taskID))
	log.Info("Batch worker started")

	for {
		// 安全点：每一步都以库里的最新状态为准
		var task model.BatchRedeemTask
		if err := database.DB().WithContext(ctx).First(&task, taskID).Error; err != nil {
			log.Error("Batch worker failed to load task", zap.Error(err))
			return
		}

		switch task.Status {
		case model.BatchTaskStatusPending:
			started, err := e.markRunning(ctx, &task)
			if err != nil {
				log.Error("Batch worker failed to mark task running", zap.Error(err))
				return
			}
			if !started {
				// 状态在加载后被并发修改，重读
				continue
			}
		case model.BatchTaskStatusRunning:
			// 继续执行
		default:
			// paused / completed / cancelled：worker 退出，恢复时会重新拉起
			log.Info("Batch worker exiting", zap.String("status", string(task.Status)))
			return
		}

		if task.Finished() {
			e.complete(ctx, &task, log)
			return
		}

		if interrupted := e.waitUntil(ctx, task.NextExecuteAt, signals); interrupted {
			if ctx.Err() != nil {
				return
			}
			// 收到控制信号，回到循环头重读状态
			continue
		}
		if ctx.Err() != nil {
			return
		}

		e.executeStep(ctx, &task, log)
	}
}

// waitUntil 等到 at（nil 表示立即），控制信号或 ctx 取消会提前返回 true
func (e *BatchEngine) waitUntil(ctx context.Context, at *time.Time, signals <-chan cache.BatchControlAction) bool {
	var wait time.Duration
	if at != nil {
		wait = time.Until(*at)
	}
	if wait <= 0 {
		// 不等待也要把积压的信号消费掉
		select {
		case <-signals:
			return true
		default:
			return false
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return true
	case <-signals:
		return true
	case <-timer.C:
		return false
	}
}

func (e *BatchEngine) markRunning(ctx context.Context, task *model.BatchRedeemTask) (bool, error) {
	res := database.DB().WithContext(ctx).
		Model(&model.BatchRedeemTask{}).
		Where("id = ? AND status = ?", task.ID, model.BatchTaskStatusPending).
		Update("status", model.BatchTaskStatusRunning)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	task.Status = model.BatchTaskStatusRunning
	return true, nil
}

// executeStep 兑换当前下标的码并推进任务
func (e *BatchEngine) executeStep(ctx context.Context, task *model.BatchRedeemTask, log *zap.Logger) {
	code := task.Codes[task.CurrentIndex]
	log = log.With(zap.Int("index", task.CurrentIndex), zap.Int("total", task.TotalCount))

	account, err := service.Account().Get(ctx, task.AccountID)
	if err != nil {
		if err == errors.AccountNotFound {
			// 账号没了，任务没法继续
			log.Warn("Batch task account deleted, cancelling task")
			e.finalize(ctx, task, model.BatchTaskStatusCancelled, log)
			return
		}
		log.Error("Batch worker failed to load account", zap.Error(err))
		e.reschedule(ctx, task, config.Cfg.RedeemFailInterval, log)
		return
	}
	if !account.Enabled {
		log.Info("Batch task account disabled, pausing task")
		e.finalize(ctx, task, model.BatchTaskStatusPaused, log)
		return
	}

	lockKey := cache.RedeemLockKey(task.AccountID)
	locked, err := cache.TryLock(ctx, lockKey, cache.RedeemLockTTL)
	if err != nil || !locked {
		if err != nil {
			log.Warn("Batch redeem lock error", zap.Error(err))
		}
		// 账号被手动兑换占着，稍后再试这一步
		e.reschedule(ctx, task, config.Cfg.RedeemFailInterval, log)
		return
	}
	defer func() {
		if err := cache.Unlock(context.WithoutCancel(ctx), lockKey); err != nil {
			log.Warn("Batch redeem lock release failed", zap.Error(err))
		}
	}()

	// 休眠期间手动兑换可能成功过，冷却窗口被重新拉满，执行前再核一次
	remaining, err := service.Redeem().CooldownRemaining(ctx, task.AccountID)
	if err != nil {
		log.Warn("Batch cooldown check failed", zap.Error(err))
		e.reschedule(ctx, task, config.Cfg.RedeemFailInterval, log)
		return
	}
	if remaining > 0 {
		log.Info("Redeem cooldown still active, deferring step",
			zap.Duration("remaining", remaining),
		)
		e.reschedule(ctx, task, remaining, log)
		return
	}

	result, err := service.Redeem().ExecuteRedeem(ctx, account, code)
	if err != nil {
		// 记录没落库，这一步不算执行过，稍后重试同一个码
		log.Error("Batch redeem step error", zap.Error(err))
		e.reschedule(ctx, task, config.Cfg.RedeemFailInterval, log)
		return
	}

	out := stepOutcome{Success: result.Success, TryLater: result.TryLater}
	log.Info("Batch redeem step finished",
		zap.Bool("success", out.Success),
		zap.Bool("try_later", out.TryLater),
		zap.String("amount", result.Amount),
	)
	e.advance(ctx, task, out, log)
}

// stepOutcome 一次兑换尝试的结果
type stepOutcome struct {
	Success  bool
	TryLater bool
}

// nextStepState 纯推进逻辑：成功或失败都消耗当前码，TryLater 原地重试
// 成功后等满冷却窗口，失败用短间隔，TryLater 重新套用冷却等待
func nextStepState(out stepOutcome, cooldown, failInterval time.Duration) (advance bool, wait time.Duration) {
	switch {
	case out.TryLater:
		return false, cooldown
	case out.Success:
		return true, cooldown
	default:
		return true, failInterval
	}
}

// advance 按结果更新计数、下标和下次执行时间
func (e *BatchEngine) advance(ctx context.Context, task *model.BatchRedeemTask, out stepOutcome, log *zap.Logger) {
	adv, wait := nextStepState(out, config.Cfg.RedeemCooldown, config.Cfg.RedeemFailInterval)

	updates := map[string]interface{}{}
	if adv {
		task.CurrentIndex++
		updates["current_index"] = task.CurrentIndex
		if out.Success {
			task.SuccessCount++
			updates["success_count"] = task.SuccessCount
		} else {
			task.FailCount++
			updates["fail_count"] = task.FailCount
		}
	}

	if task.Finished() {
		updates["status"] = model.BatchTaskStatusCompleted
		now := time.Now()
		updates["completed_at"] = &now
		updates["next_execute_at"] = nil
	} else {
		next := time.Now().Add(wait)
		task.NextExecuteAt = &next
		updates["next_execute_at"] = &next
	}

	res := database.DB().WithContext(ctx).
		Model(&model.BatchRedeemTask{}).
		Where("id = ? AND status = ?", task.ID, model.BatchTaskStatusRunning).
		Updates(updates)
	if res.Error != nil {
		log.Error("Batch task progress update failed", zap.Error(res.Error))
		return
	}
	if res.RowsAffected == 0 {
		// 并发控制操作抢先改了状态，下一轮循环会读到
		log.Info("Batch task status changed during step, progress update skipped")
		return
	}

	if fin, ok := updates["status"]; ok && fin == model.BatchTaskStatusCompleted {
		task.Status = model.BatchTaskStatusCompleted
		e.notifyFinished(task)
	}
}

// reschedule 这一步没执行成（锁冲突、临时错误），推迟后重试同一个码
func (e *BatchEngine) reschedule(ctx context.Context, task *model.BatchRedeemTask, wait time.Duration, log *zap.Logger) {
	next := time.Now().Add(wait)
	if err := database.DB().WithContext(ctx).
		Model(&model.BatchRedeemTask{}).
		Where("id = ? AND status = ?", task.ID, model.BatchTaskStatusRunning).
		Update("next_execute_at", &next).Error; err != nil {
		log.Error("Batch task reschedule failed", zap.Error(err))
	}
}

// finalize 把任务置为给定终态（或暂停），worker 在下一轮循环退出
func (e *BatchEngine) finalize(ctx context.Context, task *model.BatchRedeemTask, status model.BatchTaskStatus, log *zap.Logger) {
	updates := map[string]interface{}{
		"status":          status,
		"next_execute_at": nil,
	}
	if status.IsTerminal() {
		now := time.Now()
		updates["completed_at"] = &now
	}

	if err := database.DB().WithContext(ctx).
		Model(&model.BatchRedeemTask{}).
		Where("id = ?", task.ID).
		Updates(updates).Error; err != nil {
		log.Error("Batch task finalize failed", zap.Error(err))
	}
}

// complete 任务做完，发完成通知
func (e *BatchEngine) complete(ctx context.Context, task *model.BatchRedeemTask, log *zap.Logger) {
	if task.Status != model.BatchTaskStatusCompleted {
		e.finalize(ctx, task, model.BatchTaskStatusCompleted, log)
		task.Status = model.BatchTaskStatusCompleted
		e.notifyFinished(task)
	}
	log.Info("Batch task completed",
		zap.Int("total", task.TotalCount),
		zap.Int("success", task.SuccessCount),
		zap.Int("fail", task.FailCount),
	)
}

func (e *BatchEngine) notifyFinished(task *model.BatchRedeemTask) {
	account, err := service.Account().Get(context.Background(), task.AccountID)
	name := fmt.Sprintf("account-%d", task.AccountID)
	if err == nil {
		name = account.Name
	}

	queue.PublishNotifyEvent("batch_finished", name,
		"批量兑换完成",
		fmt.Sprintf("账户 %s 批量兑换结束：共 %d 个，成功 %d，失败 %d", name, task.TotalCount, task.SuccessCount, task.FailCount),
	)
}
