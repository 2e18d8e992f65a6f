package model

// NotifyEventMessage 通知事件消息
// 签到 / 兑换 / 批量任务的终态结果都会投递到 notify.events 队列
type NotifyEventMessage struct {
	MessageID   string `json:"message_id"` // 消息唯一ID，用于幂等性检查
	EventType   string `json:"event_type"` // checkin_result / redeem_result / batch_finished / test
	AccountName string `json:"account_name"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	OccurredAt  string `json:"occurred_at"`
}
