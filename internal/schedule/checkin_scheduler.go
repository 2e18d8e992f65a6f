package schedule

// 签到调度器：周期扫描启用的账号，在各自的签到窗口内执行每日签到
// 每个账号每个服务日只签到一次，窗口内附加一段当日固定的随机延迟

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"LeafPanel/config"
	"LeafPanel/internal/cache"
	"LeafPanel/internal/model"
	"LeafPanel/internal/service"
	"LeafPanel/pkg/logger"
	"LeafPanel/storage/database"
	"LeafPanel/utils"
)

var (
	checkinSchedulerOnce sync.Once
	checkinSchedulerInst *CheckinScheduler
)

type CheckinScheduler struct {
	logger       *zap.Logger
	scanRunning  bool
	scanMu       sync.Mutex
	lastScanTime time.Time
	rng          *rand.Rand
	rngMu        sync.Mutex

	// 窗口内失败重扫的节流：账号 -> 上次尝试时间
	attemptMu    sync.Mutex
	lastAttempts map[int64]time.Time
}

func GetCheckinScheduler() *CheckinScheduler {
	checkinSchedulerOnce.Do(func() {
		checkinSchedulerInst = &CheckinScheduler{
			logger:       logger.Logger,
			rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
			lastAttempts: make(map[int64]time.Time),
		}
	})
	return checkinSchedulerInst
}

// Run 以固定间隔扫描，直到 ctx 取消
func (s *CheckinScheduler) Run(ctx context.Context) {
	interval := config.Cfg.CheckinScanInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("Check-in scheduler started",
		zap.Duration("scan_interval", interval),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Check-in scheduler stopped")
			return
		case <-ticker.C:
			scanCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			if err := s.ScanOnce(scanCtx); err != nil {
				s.logger.Error("Check-in scan failed", zap.Error(err))
			}
			cancel()
		}
	}
}

// ScanOnce 执行一轮扫描，配置在每轮开始时热加载
func (s *CheckinScheduler) ScanOnce(ctx context.Context) error {
	s.scanMu.Lock()
	if s.scanRunning {
		s.scanMu.Unlock()
		s.logger.Info("Check-in scan already running, skipping")
		return nil
	}
	s.scanRunning = true
	s.lastScanTime = time.Now()
	s.scanMu.Unlock()

	defer func() {
		s.scanMu.Lock()
		s.scanRunning = false
		s.scanMu.Unlock()
	}()

	settings, err := service.Settings().GetCheckinSettings(ctx)
	if err != nil {
		return fmt.Errorf("load checkin settings: %w", err)
	}

	var accounts []model.Account
	if err := database.DB().WithContext(ctx).
		Where("enabled = ?", true).
		Find(&accounts).Error; err != nil {
		return fmt.Errorf("query enabled accounts: %w", err)
	}

	if len(accounts) == 0 {
		return nil
	}

	loc := config.Cfg.Location()
	now := time.Now().In(loc)

	// 当天已经有历史记录（不管成败）的账号今天不再调度
	recorded, err := s.recordedToday(ctx, utils.ServiceDay(now, loc))
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for i := range accounts {
		account := &accounts[i]

		_, hasRecord := recorded[account.ID]
		due, err := s.accountDue(ctx, now, account, settings, loc, hasRecord)
		if err != nil {
			s.logger.Warn("Check-in eligibility check failed",
				zap.Int64("account_id", account.ID),
				zap.String("account", account.Name),
				zap.Error(err),
			)
			continue
		}
		if !due {
			continue
		}

		wg.Add(1)
		go func(account *model.Account) {
			defer wg.Done()
			s.runAccount(ctx, account, settings)
		}(account)
	}

	wg.Wait()
	return nil
}

// accountDue 判断账号此刻是否应该签到：今日未处理、距上次尝试已满检查间隔、
// 处于窗口内、且过了当日随机延迟点
func (s *CheckinScheduler) accountDue(ctx context.Context, now time.Time, account *model.Account, settings *model.CheckinSettings, loc *time.Location, hasRecordToday bool) (bool, error) {
	if checkinDone(account, utils.ServiceDay(now, loc), hasRecordToday) {
		return false, nil
	}

	if !attemptDue(now, s.lastAttempt(account.ID), account.CheckInterval) {
		return false, nil
	}

	delaySeconds, err := s.dailyDelay(ctx, now, account, settings, loc)
	if err != nil {
		return false, err
	}

	return checkinDue(now, account, settings, delaySeconds, loc)
}

// recordedToday 当日已有签到记录的账号集合
func (s *CheckinScheduler) recordedToday(ctx context.Context, day time.Time) (map[int64]struct{}, error) {
	var ids []int64
	if err := database.DB().WithContext(ctx).
		Model(&model.CheckinRecord{}).
		Where("checkin_date = ?", day).
		Distinct().
		Pluck("account_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("query today's checkin records: %w", err)
	}

	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (s *CheckinScheduler) lastAttempt(accountID int64) time.Time {
	s.attemptMu.Lock()
	defer s.attemptMu.Unlock()
	return s.lastAttempts[accountID]
}

func (s *CheckinScheduler) markAttempt(accountID int64, at time.Time) {
	s.attemptMu.Lock()
	defer s.attemptMu.Unlock()
	s.lastAttempts[accountID] = at
}

// dailyDelay 取当日随机延迟秒数，同一天内只抽取一次，结果放 Redis
func (s *CheckinScheduler) dailyDelay(ctx context.Context, now time.Time, account *model.Account, settings *model.CheckinSettings, loc *time.Location) (int, error) {
	if settings.RandomDelayMax <= 0 {
		return 0, nil
	}

	day := utils.ServiceDayString(now, loc)
	delay, found, err := cache.GetCheckinDelay(ctx, day, account.ID)
	if err != nil {
		return 0, err
	}
	if found {
		return delay, nil
	}

	s.rngMu.Lock()
	delay = drawDelay(s.rng, settings.RandomDelayMin, settings.RandomDelayMax)
	s.rngMu.Unlock()

	if err := cache.SetCheckinDelay(ctx, day, account.ID, delay); err != nil {
		s.logger.Warn("Failed to cache check-in delay",
			zap.Int64("account_id", account.ID),
			zap.Error(err),
		)
	}
	return delay, nil
}

func (s *CheckinScheduler) runAccount(ctx context.Context, account *model.Account, settings *model.CheckinSettings) {
	s.markAttempt(account.ID, time.Now())

	lockKey := cache.CheckinLockKey(account.ID)
	locked, err := cache.TryLock(ctx, lockKey, cache.CheckinLockTTL)
	if err != nil {
		s.logger.Warn("Check-in lock acquire failed",
			zap.Int64("account_id", account.ID),
			zap.Error(err),
		)
		return
	}
	if !locked {
		// 另一个进程（比如手动签到）正在处理这个账号
		return
	}
	defer func() {
		if err := cache.Unlock(context.WithoutCancel(ctx), lockKey); err != nil {
			s.logger.Warn("Check-in lock release failed",
				zap.Int64("account_id", account.ID),
				zap.Error(err),
			)
		}
	}()

	retryCount := account.RetryCount
	if retryCount <= 0 {
		retryCount = settings.RetryCount
	}

	record, err := service.Checkin().ExecuteCheckin(ctx, account, retryCount)
	if err != nil {
		s.logger.Error("Scheduled check-in failed",
			zap.Int64("account_id", account.ID),
			zap.String("account", account.Name),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Scheduled check-in finished",
		zap.Int64("account_id", account.ID),
		zap.String("account", account.Name),
		zap.Bool("success", record.Success),
		zap.Int("retry_times", record.RetryTimes),
	)
}

// checkinDone 今日是否已经处理过
// 当日留下过历史记录（成功或失败）或账号日期标记命中都算处理过，当天不再调度
func checkinDone(account *model.Account, day time.Time, hasRecordToday bool) bool {
	return hasRecordToday || account.CheckedInOn(day)
}

// attemptDue 距上次尝试是否已满账号的检查间隔，零值表示今天还没试过
func attemptDue(now, lastAttempt time.Time, intervalSeconds int) bool {
	if lastAttempt.IsZero() {
		return true
	}
	if intervalSeconds <= 0 {
		intervalSeconds = 60
	}
	return now.Sub(lastAttempt) >= time.Duration(intervalSeconds)*time.Second
}

// checkinWindow 账号的签到窗口，为空时退回全局设置
// 账号只配置了起点时，窗口一直开到当天结束
func checkinWindow(account *model.Account, settings *model.CheckinSettings) (string, string) {
	start := account.CheckinTimeStart
	if start == "" {
		start = settings.CheckinTime
	}
	end := account.CheckinTimeEnd
	if end == "" {
		end = "23:59"
	}
	return start, end
}

// checkinDue 纯判定：now 落在窗口内且已经过了 窗口起点+delay
func checkinDue(now time.Time, account *model.Account, settings *model.CheckinSettings, delaySeconds int, loc *time.Location) (bool, error) {
	start, end := checkinWindow(account, settings)

	in, err := utils.InWindow(now, start, end, loc)
	if err != nil {
		return false, fmt.Errorf("account %d window: %w", account.ID, err)
	}
	if !in {
		return false, nil
	}

	startAt, err := utils.ParseTime(start, now.In(loc))
	if err != nil {
		return false, err
	}
	eligibleAt := startAt.Add(time.Duration(delaySeconds) * time.Second)
	return !now.Before(eligibleAt), nil
}

// drawDelay 在 [min, max] 内均匀抽取延迟秒数
func drawDelay(rng *rand.Rand, min, max int) int {
	if max <= 0 || max < min {
		return 0
	}
	if min < 0 {
		min = 0
	}
	if min == max {
		return min
	}
	return min + rng.Intn(max-min+1)
}
