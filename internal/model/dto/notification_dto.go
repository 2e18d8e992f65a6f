package dto

// ========== Notification 相关 DTO ==========

// UpdateNotificationSettingsRequest 更新通知设置，指针字段表示未提交
type UpdateNotificationSettingsRequest struct {
	Enabled *bool `json:"enabled"`

	TelegramEnabled  *bool   `json:"telegram_enabled"`
	TelegramBotToken *string `json:"telegram_bot_token"`
	TelegramUserID   *string `json:"telegram_user_id"`
	TelegramHost     *string `json:"telegram_host"`

	WeChatEnabled    *bool   `json:"wechat_enabled"`
	WeChatWebhookKey *string `json:"wechat_webhook_key"`
	WeChatHost       *string `json:"wechat_host"`

	WxPusherEnabled  *bool   `json:"wxpusher_enabled"`
	WxPusherAppToken *string `json:"wxpusher_app_token"`
	WxPusherUID      *string `json:"wxpusher_uid"`
	WxPusherHost     *string `json:"wxpusher_host"`

	DingTalkEnabled     *bool   `json:"dingtalk_enabled"`
	DingTalkAccessToken *string `json:"dingtalk_access_token"`
	DingTalkSecret      *string `json:"dingtalk_secret"`
	DingTalkHost        *string `json:"dingtalk_host"`
}
