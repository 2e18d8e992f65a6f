package notify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestSignWebhookURL(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	secret := "SEC-test-secret"
	endpoint := signWebhookURL("", "token123", secret, now)

	parsed, err := url.Parse(endpoint)
	if err != nil {
		t.Fatalf("parse endpoint: %v", err)
	}
	if parsed.Host != "oapi.dingtalk.com" || parsed.Path != "/robot/send" {
		t.Fatalf("unexpected endpoint: %s", endpoint)
	}

	query := parsed.Query()
	if query.Get("access_token") != "token123" {
		t.Fatalf("access_token = %q", query.Get("access_token"))
	}
	if query.Get("timestamp") != "1700000000000" {
		t.Fatalf("timestamp = %q", query.Get("timestamp"))
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("1700000000000\n" + secret))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	if query.Get("sign") != want {
		t.Fatalf("sign = %q, want %q", query.Get("sign"), want)
	}
}

func TestSignWebhookURLCustomHost(t *testing.T) {
	endpoint := signWebhookURL("https://proxy.example.com/", "tok", "sec", time.UnixMilli(1))
	if !strings.HasPrefix(endpoint, "https://proxy.example.com/robot/send?") {
		t.Fatalf("custom host not honored: %s", endpoint)
	}
}

func TestBuildSenders(t *testing.T) {
	settings := Settings{
		Enabled:          true,
		TelegramEnabled:  true,
		TelegramBotToken: "tok",
		TelegramUserID:   "42",
		WeChatEnabled:    true, // 缺 key，应被跳过
		DingTalkEnabled:  true,
		DingTalkAccessToken: "tok",
		DingTalkSecret:   "sec",
	}

	senders := BuildSenders(settings)
	if len(senders) != 2 {
		t.Fatalf("len(senders) = %d, want 2", len(senders))
	}
	if senders[0].Name() != "telegram" || senders[1].Name() != "dingtalk" {
		t.Fatalf("unexpected channels: %s, %s", senders[0].Name(), senders[1].Name())
	}

	settings.Enabled = false
	if got := BuildSenders(settings); got != nil {
		t.Fatalf("disabled settings should yield no senders, got %d", len(got))
	}
}
