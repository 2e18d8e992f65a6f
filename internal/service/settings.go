package service

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"LeafPanel/internal/model"
	"LeafPanel/internal/model/dto"
	"LeafPanel/pkg/notify"
	"LeafPanel/storage/database"
)

var (
	settingsService *SettingsService
	settingsOnce    sync.Once
)

func Settings() *SettingsService {
	settingsOnce.Do(func() {
		settingsService = &SettingsService{}
	})
	return settingsService
}

type SettingsService struct{}

// GetCheckinSettings 取全局签到设置，不存在时落默认行
func (s *SettingsService) GetCheckinSettings(ctx context.Context) (*model.CheckinSettings, error) {
	var settings model.CheckinSettings
	err := database.DB().WithContext(ctx).First(&settings, 1).Error
	if err == gorm.ErrRecordNotFound {
		settings = model.CheckinSettings{
			ID:          1,
			CheckinTime: "06:30",
			RetryCount:  2,
		}
		if err := database.DB().WithContext(ctx).Create(&settings).Error; err != nil {
			return nil, fmt.Errorf("seed checkin settings: %w", err)
		}
		return &settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get checkin settings: %w", err)
	}
	return &settings, nil
}

// UpdateCheckinSettings 更新并校验全局签到设置
func (s *SettingsService) UpdateCheckinSettings(ctx context.Context, req dto.UpdateCheckinSettingsRequest) (*model.CheckinSettings, error) {
	settings, err := s.GetCheckinSettings(ctx)
	if err != nil {
		return nil, err
	}

	if req.CheckinTime != nil {
		settings.CheckinTime = *req.CheckinTime
	}
	if req.RetryCount != nil {
		settings.RetryCount = *req.RetryCount
	}
	if req.RandomDelayMin != nil {
		settings.RandomDelayMin = *req.RandomDelayMin
	}
	if req.RandomDelayMax != nil {
		settings.RandomDelayMax = *req.RandomDelayMax
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	if err := database.DB().WithContext(ctx).Save(settings).Error; err != nil {
		return nil, fmt.Errorf("save checkin settings: %w", err)
	}
	return settings, nil
}

// GetNotificationSettings 取通知设置单例，不存在时落默认行
func (s *SettingsService) GetNotificationSettings(ctx context.Context) (*model.NotificationSettings, error) {
	var settings model.NotificationSettings
	err := database.DB().WithContext(ctx).First(&settings, 1).Error
	if err == gorm.ErrRecordNotFound {
		settings = model.NotificationSettings{ID: 1}
		if err := database.DB().WithContext(ctx).Create(&settings).Error; err != nil {
			return nil, fmt.Errorf("seed notification settings: %w", err)
		}
		return &settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get notification settings: %w", err)
	}
	return &settings, nil
}

// UpdateNotificationSettings 更新通知设置
func (s *SettingsService) UpdateNotificationSettings(ctx context.Context, req dto.UpdateNotificationSettingsRequest) (*model.NotificationSettings, error) {
	settings, err := s.GetNotificationSettings(ctx)
	if err != nil {
		return nil, err
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}

	applyBool(&settings.Enabled, req.Enabled)

	applyBool(&settings.TelegramEnabled, req.TelegramEnabled)
	applyString(&settings.TelegramBotToken, req.TelegramBotToken)
	applyString(&settings.TelegramUserID, req.TelegramUserID)
	applyString(&settings.TelegramHost, req.TelegramHost)

	applyBool(&settings.WeChatEnabled, req.WeChatEnabled)
	applyString(&settings.WeChatWebhookKey, req.WeChatWebhookKey)
	applyString(&settings.WeChatHost, req.WeChatHost)

	applyBool(&settings.WxPusherEnabled, req.WxPusherEnabled)
	applyString(&settings.WxPusherAppToken, req.WxPusherAppToken)
	applyString(&settings.WxPusherUID, req.WxPusherUID)
	applyString(&settings.WxPusherHost, req.WxPusherHost)

	applyBool(&settings.DingTalkEnabled, req.DingTalkEnabled)
	applyString(&settings.DingTalkAccessToken, req.DingTalkAccessToken)
	applyString(&settings.DingTalkSecret, req.DingTalkSecret)
	applyString(&settings.DingTalkHost, req.DingTalkHost)

	if err := database.DB().WithContext(ctx).Save(settings).Error; err != nil {
		return nil, fmt.Errorf("save notification settings: %w", err)
	}
	return settings, nil
}

// SendTestNotification 立即向所有已配置渠道发送测试消息
func (s *SettingsService) SendTestNotification(ctx context.Context) error {
	settings, err := s.GetNotificationSettings(ctx)
	if err != nil {
		return err
	}

	notify.Dispatch(ctx, settings.NotifyChannels(), "测试通知", "通知渠道配置正常，面板可以正常推送消息。")
	return nil
}
