package metrics

import (
	"context"
)

// 包级别的便捷封装，指标未初始化时静默为空操作

// RecordCheckin 记录签到结果
func RecordCheckin(status string, duration float64) {
	if m := GetMetrics(); m != nil {
		m.RecordCheckin(context.Background(), status, duration)
	}
}

// RecordCheckinRetry 记录签到重试
func RecordCheckinRetry(reason string) {
	if m := GetMetrics(); m != nil {
		m.RecordCheckinRetry(context.Background(), reason)
	}
}

// RecordRedeem 记录兑换结果
func RecordRedeem(status string, duration float64) {
	if m := GetMetrics(); m != nil {
		m.RecordRedeem(context.Background(), status, duration)
	}
}

// AddBatchActiveTask 批量任务开始
func AddBatchActiveTask() {
	if m := GetMetrics(); m != nil {
		m.AddBatchActiveTask(context.Background())
	}
}

// SubtractBatchActiveTask 批量任务结束
func SubtractBatchActiveTask() {
	if m := GetMetrics(); m != nil {
		m.SubtractBatchActiveTask(context.Background())
	}
}

// RecordNotification 记录通知投递
func RecordNotification(channel, status string) {
	if m := GetMetrics(); m != nil {
		m.RecordNotification(context.Background(), channel, status)
	}
}
