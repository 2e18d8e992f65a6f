package queue

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"LeafPanel/config"
	"LeafPanel/internal/model"
	"LeafPanel/pkg/logger"
	"LeafPanel/pkg/snowflake"
	"LeafPanel/storage/mq"
)

// PublishNotifyEvent 发布通知事件
// 投递失败只记日志，业务流程不因通知不可用而中断
func PublishNotifyEvent(eventType, accountName, title, content string) {
	id, err := snowflake.NextID()
	if err != nil {
		logger.Logger.Error("Failed to generate message ID",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	msg := model.NotifyEventMessage{
		MessageID:   fmt.Sprintf("notify_%d", id),
		EventType:   eventType,
		AccountName: accountName,
		Title:       title,
		Content:     content,
		OccurredAt:  time.Now().In(config.Cfg.Location()).Format(time.RFC3339),
	}

	err = mq.PublishMessage(
		mq.NotifyExchange,
		mq.NotifyRoutingKey,
		msg,
	)

	if err != nil {
		logger.Logger.Error("Failed to publish notify event",
			zap.String("message_id", msg.MessageID),
			zap.String("event_type", eventType),
			zap.String("account", accountName),
			zap.Error(err),
		)
		return
	}

	logger.Logger.Info("Published notify event",
		zap.String("message_id", msg.MessageID),
		zap.String("event_type", eventType),
		zap.String("account", accountName),
	)
}

// PublishNotifyEventDelayed 延迟发布通知事件，用于投递失败后的退避重试
func PublishNotifyEventDelayed(msg model.NotifyEventMessage, delay time.Duration) error {
	return mq.PublishDelayedMessage(
		mq.NotifyExchange,
		mq.NotifyRoutingKey,
		delay,
		msg,
	)
}
