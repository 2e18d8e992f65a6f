package utils

import "time"

// NextEligibleTime 根据上一次成功时间推导下一次可兑换的绝对时间
// lastSuccess 为空表示立即可兑换；失败记录不参与计时
func NextEligibleTime(lastSuccess *time.Time, cooldown time.Duration) time.Time {
	if lastSuccess == nil {
		return time.Time{}
	}
	return lastSuccess.Add(cooldown)
}

// CooldownRemaining 距离下一次可兑换还差多久，非正值表示已可兑换
func CooldownRemaining(lastSuccess *time.Time, cooldown time.Duration, now time.Time) time.Duration {
	return NextEligibleTime(lastSuccess, cooldown).Sub(now)
}

// RetryBackoff 第 attempt 次重试前的固定等待（attempt 从 1 开始）
// 签到重试用固定基础间隔，不做指数退避
func RetryBackoff(attempt int, base time.Duration) time.Duration {
	if attempt <= 0 {
		return 0
	}
	return base
}
