package model

import (
	"time"

	"LeafPanel/pkg/errors"
	"LeafPanel/pkg/notify"
)

// CheckinSettings 全局签到设置单例（id=1），调度器每轮热加载
type CheckinSettings struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	CheckinTime    string    `gorm:"type:varchar(5);not null;default:'06:30'" json:"checkin_time"`
	RetryCount     int       `gorm:"not null;default:2" json:"retry_count"`
	RandomDelayMin int       `gorm:"not null;default:0" json:"random_delay_min"`
	RandomDelayMax int       `gorm:"not null;default:0" json:"random_delay_max"`
	UpdatedAt      time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CheckinSettings) TableName() string {
	return "checkin_settings"
}

// Validate 校验设置范围
func (s *CheckinSettings) Validate() error {
	if s.RetryCount < 0 || s.RetryCount > 5 {
		return errors.InvalidRetryCount
	}
	if s.RandomDelayMin < 0 || s.RandomDelayMax > 300 || s.RandomDelayMin > s.RandomDelayMax {
		return errors.InvalidRandomDelay
	}
	return nil
}

// NotificationSettings 通知设置单例（id=1），每次投递前热加载
type NotificationSettings struct {
	ID      int64 `gorm:"primaryKey" json:"id"`
	Enabled bool  `gorm:"not null;default:false" json:"enabled"`

	TelegramEnabled  bool   `gorm:"not null;default:false" json:"telegram_enabled"`
	TelegramBotToken string `gorm:"type:varchar(255);not null;default:''" json:"telegram_bot_token"`
	TelegramUserID   string `gorm:"type:varchar(255);not null;default:''" json:"telegram_user_id"`
	TelegramHost     string `gorm:"type:varchar(255);not null;default:''" json:"telegram_host"`

	WeChatEnabled    bool   `gorm:"not null;default:false" json:"wechat_enabled"`
	WeChatWebhookKey string `gorm:"type:varchar(255);not null;default:''" json:"wechat_webhook_key"`
	WeChatHost       string `gorm:"type:varchar(255);not null;default:''" json:"wechat_host"`

	WxPusherEnabled  bool   `gorm:"not null;default:false" json:"wxpusher_enabled"`
	WxPusherAppToken string `gorm:"type:varchar(255);not null;default:''" json:"wxpusher_app_token"`
	WxPusherUID      string `gorm:"type:varchar(255);not null;default:''" json:"wxpusher_uid"`
	WxPusherHost     string `gorm:"type:varchar(255);not null;default:''" json:"wxpusher_host"`

	DingTalkEnabled     bool   `gorm:"not null;default:false" json:"dingtalk_enabled"`
	DingTalkAccessToken string `gorm:"type:varchar(255);not null;default:''" json:"dingtalk_access_token"`
	DingTalkSecret      string `gorm:"type:varchar(255);not null;default:''" json:"dingtalk_secret"`
	DingTalkHost        string `gorm:"type:varchar(255);not null;default:''" json:"dingtalk_host"`

	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (NotificationSettings) TableName() string {
	return "notification_settings"
}

// NotifyChannels DB 行到发送器配置的转换
func (s *NotificationSettings) NotifyChannels() notify.Settings {
	return notify.Settings{
		Enabled: s.Enabled,

		TelegramEnabled:  s.TelegramEnabled,
		TelegramBotToken: s.TelegramBotToken,
		TelegramUserID:   s.TelegramUserID,
		TelegramHost:     s.TelegramHost,

		WeChatEnabled:    s.WeChatEnabled,
		WeChatWebhookKey: s.WeChatWebhookKey,
		WeChatHost:       s.WeChatHost,

		WxPusherEnabled:  s.WxPusherEnabled,
		WxPusherAppToken: s.WxPusherAppToken,
		WxPusherUID:      s.WxPusherUID,
		WxPusherHost:     s.WxPusherHost,

		DingTalkEnabled:     s.DingTalkEnabled,
		DingTalkAccessToken: s.DingTalkAccessToken,
		DingTalkSecret:      s.DingTalkSecret,
		DingTalkHost:        s.DingTalkHost,
	}
}
