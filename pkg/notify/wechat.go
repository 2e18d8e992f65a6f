package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// WeChatSender 企业微信群机器人
type WeChatSender struct {
	WebhookKey string
	Host       string
}

func (s *WeChatSender) Name() string { return "wechat" }

func (s *WeChatSender) Send(ctx context.Context, title, content string) error {
	endpoint := fmt.Sprintf("%s/cgi-bin/webhook/send?key=%s", resolveHost(s.Host, "https://qyapi.weixin.qq.com"), s.WebhookKey)

	payload, err := json.Marshal(map[string]any{
		"msgtype": "text",
		"text":    map[string]string{"content": fmt.Sprintf("【%s】\n\n%s", title, content)},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json;charset=utf-8")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wechat request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("wechat response decode: %w", err)
	}
	if result.ErrCode != 0 {
		return fmt.Errorf("wechat api: %s", result.ErrMsg)
	}
	return nil
}
