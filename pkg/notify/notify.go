package notify

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"LeafPanel/pkg/logger"
)

// Sender 单个通知渠道
type Sender interface {
	Name() string
	Send(ctx context.Context, title, content string) error
}

// Settings 通知渠道配置，来自 notification_settings 单例行
type Settings struct {
	Enabled bool

	TelegramEnabled  bool
	TelegramBotToken string
	TelegramUserID   string
	TelegramHost     string

	WeChatEnabled    bool
	WeChatWebhookKey string
	WeChatHost       string

	WxPusherEnabled  bool
	WxPusherAppToken string
	WxPusherUID      string
	WxPusherHost     string

	DingTalkEnabled     bool
	DingTalkAccessToken string
	DingTalkSecret      string
	DingTalkHost        string
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

// BuildSenders 根据配置装配启用且配置完整的渠道
func BuildSenders(settings Settings) []Sender {
	if !settings.Enabled {
		return nil
	}

	senders := make([]Sender, 0, 4)
	if settings.TelegramEnabled && settings.TelegramBotToken != "" && settings.TelegramUserID != "" {
		senders = append(senders, &TelegramSender{
			BotToken: settings.TelegramBotToken,
			ChatID:   settings.TelegramUserID,
			Host:     settings.TelegramHost,
		})
	}
	if settings.WeChatEnabled && settings.WeChatWebhookKey != "" {
		senders = append(senders, &WeChatSender{
			WebhookKey: settings.WeChatWebhookKey,
			Host:       settings.WeChatHost,
		})
	}
	if settings.WxPusherEnabled && settings.WxPusherAppToken != "" && settings.WxPusherUID != "" {
		senders = append(senders, &WxPusherSender{
			AppToken: settings.WxPusherAppToken,
			UID:      settings.WxPusherUID,
			Host:     settings.WxPusherHost,
		})
	}
	if settings.DingTalkEnabled && settings.DingTalkAccessToken != "" && settings.DingTalkSecret != "" {
		senders = append(senders, &DingTalkSender{
			AccessToken: settings.DingTalkAccessToken,
			Secret:      settings.DingTalkSecret,
			Host:        settings.DingTalkHost,
		})
	}
	return senders
}

// Dispatch 按配置向所有渠道推送，单渠道失败只记日志不中断其它渠道
func Dispatch(ctx context.Context, settings Settings, title, content string) {
	senders := BuildSenders(settings)
	if len(senders) == 0 {
		logger.Logger.Debug("notification skipped, no channel configured")
		return
	}

	for _, sender := range senders {
		if err := sender.Send(ctx, title, content); err != nil {
			logger.Logger.Error("notification send failed",
				zap.String("channel", sender.Name()),
				zap.Error(err),
			)
			continue
		}
		logger.Logger.Info("notification sent", zap.String("channel", sender.Name()))
	}
}

func resolveHost(custom, fallback string) string {
	if custom == "" {
		return fallback
	}
	for len(custom) > 0 && custom[len(custom)-1] == '/' {
		custom = custom[:len(custom)-1]
	}
	return custom
}
