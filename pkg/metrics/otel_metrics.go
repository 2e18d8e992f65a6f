package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 签到相关指标
	CheckinTotal    metric.Int64Counter
	CheckinDuration metric.Float64Histogram
	CheckinRetryTotal metric.Int64Counter

	// 兑换相关指标
	RedeemTotal      metric.Int64Counter
	RedeemDuration   metric.Float64Histogram
	BatchActiveTasks metric.Int64UpDownCounter

	// 通知相关指标
	NotificationTotal metric.Int64Counter

	// HTTP 相关指标
	HTTPServerRequestTotal   metric.Int64Counter
	HTTPServerDuration       metric.Float64Histogram
	HTTPServerActiveRequests metric.Int64UpDownCounter
}

var (
	// 全局指标实例
	metrics *OTelMetrics
	// meter 用于创建指标
	meter = otel.Meter("leafpanel")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.CheckinTotal, err = meter.Int64Counter(
		"checkin_total",
		metric.WithDescription("Total number of check-in attempts"),
		metric.WithUnit("{checkin}"),
	)
	if err != nil {
		return err
	}

	metrics.CheckinDuration, err = meter.Float64Histogram(
		"checkin_duration_seconds",
		metric.WithDescription("Time spent executing a check-in in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.CheckinRetryTotal, err = meter.Int64Counter(
		"checkin_retry_total",
		metric.WithDescription("Total number of check-in retry attempts"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return err
	}

	metrics.RedeemTotal, err = meter.Int64Counter(
		"redeem_total",
		metric.WithDescription("Total number of redeem attempts"),
		metric.WithUnit("{redeem}"),
	)
	if err != nil {
		return err
	}

	metrics.RedeemDuration, err = meter.Float64Histogram(
		"redeem_duration_seconds",
		metric.WithDescription("Time spent executing a redeem in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.BatchActiveTasks, err = meter.Int64UpDownCounter(
		"batch_redeem_active_tasks",
		metric.WithDescription("Number of currently running batch redeem tasks"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return err
	}

	metrics.NotificationTotal, err = meter.Int64Counter(
		"notification_total",
		metric.WithDescription("Total number of notification deliveries"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return err
	}

	metrics.HTTPServerRequestTotal, err = meter.Int64Counter(
		"http_server_request_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	metrics.HTTPServerDuration, err = meter.Float64Histogram(
		"http_server_duration_seconds",
		metric.WithDescription("HTTP request handling duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.HTTPServerActiveRequests, err = meter.Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordCheckin 记录一次签到结果
func (m *OTelMetrics) RecordCheckin(ctx context.Context, status string, duration float64) {
	m.CheckinTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	m.CheckinDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("status", status)))
}

// RecordCheckinRetry 记录一次签到重试
func (m *OTelMetrics) RecordCheckinRetry(ctx context.Context, reason string) {
	m.CheckinRetryTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("retry_reason", reason)))
}

// RecordRedeem 记录一次兑换结果
func (m *OTelMetrics) RecordRedeem(ctx context.Context, status string, duration float64) {
	m.RedeemTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	m.RedeemDuration.Record(ctx, duration, metric.WithAttributes(attribute.String("status", status)))
}

// AddBatchActiveTask 批量任务开始
func (m *OTelMetrics) AddBatchActiveTask(ctx context.Context) {
	m.BatchActiveTasks.Add(ctx, 1)
}

// SubtractBatchActiveTask 批量任务结束
func (m *OTelMetrics) SubtractBatchActiveTask(ctx context.Context) {
	m.BatchActiveTasks.Add(ctx, -1)
}

// RecordNotification 记录一次通知投递
func (m *OTelMetrics) RecordNotification(ctx context.Context, channel, status string) {
	m.NotificationTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel),
		attribute.String("status", status),
	))
}
