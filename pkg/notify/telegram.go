package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// TelegramSender 通过 Bot API 推送
type TelegramSender struct {
	BotToken string
	ChatID   string
	Host     string
}

func (s *TelegramSender) Name() string { return "telegram" }

func (s *TelegramSender) Send(ctx context.Context, title, content string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", resolveHost(s.Host, "https://api.telegram.org"), s.BotToken)

	form := url.Values{
		"chat_id":                  {s.ChatID},
		"text":                     {fmt.Sprintf("📢 %s\n\n%s", title, content)},
		"disable_web_page_preview": {"true"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("telegram response: %w", err)
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("telegram response decode: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram api: %s", result.Description)
	}
	return nil
}
