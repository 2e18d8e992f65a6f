package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"LeafPanel/internal/cache"
	"LeafPanel/internal/model"
	"LeafPanel/pkg/logger"
	"LeafPanel/pkg/metrics"
	"LeafPanel/pkg/notify"
	"LeafPanel/storage/database"
	"LeafPanel/storage/mq"
)

const (
	notifyConsumerTag   = "leafpanel-worker"
	notifyPrefetchCount = 8
	notifyRetryDelay    = 30 * time.Second
)

// StartNotifyConsumer 启动通知事件消费者，阻塞直到通道关闭
// 幂等靠 Redis SETNX；投递失败改走延迟重发，避免热循环 requeue
func StartNotifyConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.NotifyEventMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			// 消息结构不对，重试也没用，记日志后吞掉
			logger.Logger.Error("Failed to unmarshal notify event", zap.Error(err))
			return nil
		}

		first, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 0)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// 检查失败时继续处理，宁可重复不丢通知
		} else if !first {
			logger.Logger.Info("Message already processed, skipping",
				zap.String("message_id", msg.MessageID),
			)
			return nil
		}

		if err := dispatch(ctx, msg); err != nil {
			_ = cache.UnmarkMessageProcessing(ctx, msg.MessageID)

			if pubErr := PublishNotifyEventDelayed(msg, notifyRetryDelay); pubErr != nil {
				logger.Logger.Error("Failed to reschedule notify event",
					zap.String("message_id", msg.MessageID),
					zap.Error(pubErr),
				)
				return fmt.Errorf("dispatch and reschedule both failed: %w", err)
			}

			logger.Logger.Warn("Notify dispatch failed, rescheduled",
				zap.String("message_id", msg.MessageID),
				zap.Duration("delay", notifyRetryDelay),
				zap.Error(err),
			)
		}

		return nil
	}

	return mq.Consume(ctx, mq.ConsumeOptions{
		Queue:         mq.NotifyQueue,
		ConsumerTag:   notifyConsumerTag,
		PrefetchCount: notifyPrefetchCount,
		Handler:       handler,
	})
}

// dispatch 加载当前通知设置并逐渠道投递
// 设置直接从库里读，worker 不依赖 service 层
func dispatch(ctx context.Context, msg model.NotifyEventMessage) error {
	channelSettings, err := loadNotifyChannels(ctx)
	if err != nil {
		return fmt.Errorf("load notification settings: %w", err)
	}

	senders := notify.BuildSenders(channelSettings)
	if len(senders) == 0 {
		logger.Logger.Debug("notifications disabled or unconfigured, dropping event",
			zap.String("message_id", msg.MessageID),
		)
		return nil
	}

	var lastErr error
	for _, sender := range senders {
		if err := sender.Send(ctx, msg.Title, msg.Content); err != nil {
			metrics.RecordNotification(sender.Name(), "failed")
			logger.Logger.Error("notification send failed",
				zap.String("channel", sender.Name()),
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			lastErr = err
			continue
		}
		metrics.RecordNotification(sender.Name(), "success")
	}
	return lastErr
}

// loadNotifyChannels 读通知设置单例，行还没建时当作全部未配置
func loadNotifyChannels(ctx context.Context) (notify.Settings, error) {
	var settings model.NotificationSettings
	err := database.DB().WithContext(ctx).First(&settings, 1).Error
	if err == gorm.ErrRecordNotFound {
		return notify.Settings{}, nil
	}
	if err != nil {
		return notify.Settings{}, err
	}
	return settings.NotifyChannels(), nil
}
