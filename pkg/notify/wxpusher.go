package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"LeafPanel/config"
)

// WxPusherSender WxPusher 推送，内容渲染为 HTML 卡片
type WxPusherSender struct {
	AppToken string
	UID      string
	Host     string
}

func (s *WxPusherSender) Name() string { return "wxpusher" }

const wxpusherTemplate = `<div style="padding: 10px; color: #2c3e50; background: #ffffff;">
<h2 style="color: inherit; margin: 0;">%s</h2>
<div style="margin-top: 10px; padding: 10px; background: #f8f9fa; border-radius: 5px; color: #2c3e50;">
<pre style="white-space: pre-wrap; word-wrap: break-word; margin: 0; color: inherit;">%s</pre>
</div>
<div style="margin-top: 10px; color: #7f8c8d; font-size: 12px;">发送时间: %s</div>
</div>`

func (s *WxPusherSender) Send(ctx context.Context, title, content string) error {
	endpoint := resolveHost(s.Host, "https://wxpusher.zjiecode.com") + "/api/send/message"

	summary := title
	if runes := []rune(summary); len(runes) > 20 {
		summary = string(runes[:20])
	}

	sentAt := time.Now().In(config.Cfg.Location()).Format("2006-01-02 15:04:05")
	payload, err := json.Marshal(map[string]any{
		"appToken":      s.AppToken,
		"content":       fmt.Sprintf(wxpusherTemplate, title, content, sentAt),
		"summary":       summary,
		"contentType":   2,
		"uids":          []string{s.UID},
		"verifyPayType": 0,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("wxpusher request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("wxpusher response decode: %w", err)
	}
	if result.Code != 1000 {
		return fmt.Errorf("wxpusher api: %s", result.Msg)
	}
	return nil
}
