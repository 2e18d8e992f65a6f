package model

import "testing"

func TestCheckinSettingsValidate(t *testing.T) {
	s := &CheckinSettings{CheckinTime: "06:30", RetryCount: 2, RandomDelayMin: 0, RandomDelayMax: 30}
	if err := s.Validate(); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}

	bad := []CheckinSettings{
		{RetryCount: -1},
		{RetryCount: 6},
		{RandomDelayMin: 10, RandomDelayMax: 5},
		{RandomDelayMin: 0, RandomDelayMax: 301},
	}
	for i, s := range bad {
		if err := s.Validate(); err == nil {
			t.Errorf("case %d: invalid settings accepted", i)
		}
	}
}

func TestNotifyChannelsMapping(t *testing.T) {
	row := &NotificationSettings{
		Enabled:          true,
		TelegramEnabled:  true,
		TelegramBotToken: "bot:token",
		TelegramUserID:   "12345",
		WxPusherEnabled:  true,
		WxPusherAppToken: "AT_xxx",
		WxPusherUID:      "UID_yyy",
	}

	got := row.NotifyChannels()
	if !got.Enabled || !got.TelegramEnabled || !got.WxPusherEnabled {
		t.Fatal("enabled flags not carried over")
	}
	if got.TelegramBotToken != "bot:token" || got.TelegramUserID != "12345" {
		t.Fatal("telegram credentials not carried over")
	}
	if got.WeChatEnabled || got.DingTalkEnabled {
		t.Fatal("unconfigured channels must stay disabled")
	}

	// 空行（还没配置过）折算出的设置不会构建任何发送器
	empty := (&NotificationSettings{}).NotifyChannels()
	if empty.Enabled {
		t.Fatal("zero-value settings must be disabled")
	}
}
