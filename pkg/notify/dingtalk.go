package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DingTalkSender 钉钉群机器人，加签模式
type DingTalkSender struct {
	AccessToken string
	Secret      string
	Host        string
}

func (s *DingTalkSender) Name() string { return "dingtalk" }

// signWebhookURL 生成带时间戳和签名的机器人地址
// 签名内容为 "<毫秒时间戳>\n<secret>"，HMAC-SHA256 后 base64 再 URL 编码
func signWebhookURL(host, accessToken, secret string, now time.Time) string {
	timestamp := fmt.Sprintf("%d", now.UnixMilli())
	stringToSign := timestamp + "\n" + secret

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(stringToSign))
	sign := url.QueryEscape(base64.StdEncoding.EncodeToString(mac.Sum(nil)))

	return fmt.Sprintf("%s/robot/send?access_token=%s&timestamp=%s&sign=%s",
		resolveHost(host, "https://oapi.dingtalk.com"), accessToken, timestamp, sign)
}

func (s *DingTalkSender) Send(ctx context.Context, title, content string) error {
	endpoint := signWebhookURL(s.Host, s.AccessToken, s.Secret, time.Now())

	payload, err := json.Marshal(map[string]any{
		"msgtype": "text",
		"text":    map[string]string{"content": fmt.Sprintf("【%s】\n%s", title, content)},
		"at":      map[string]any{"isAtAll": false},
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
		return fmt.Errorf("dingtalk request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("dingtalk response decode: %w", err)
	}
	if result.ErrCode != 0 {
		return fmt.Errorf("dingtalk api: %s", result.ErrMsg)
	}
	return nil
}
