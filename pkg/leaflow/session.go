package leaflow

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// Credentials 账户的不透明凭证（cookie + 附加 header），由操作员粘贴导入
type Credentials struct {
	Cookies map[string]string `json:"cookies"`
	Headers map[string]string `json:"headers,omitempty"`
}

var cookiePairSplit = regexp.MustCompile(`;\s*`)

// ParseCookieString 解析多种格式的 cookie 输入
// 支持 JSON（{"cookies": {...}} 或裸 map）和浏览器复制的 "k=v; k2=v2" 字符串
func ParseCookieString(input string) (Credentials, error) {
	input = strings.TrimSpace(input)

	if strings.HasPrefix(input, "{") {
		var creds Credentials
		if err := json.Unmarshal([]byte(input), &creds); err == nil && len(creds.Cookies) > 0 {
			return creds, nil
		}

		var raw map[string]string
		if err := json.Unmarshal([]byte(input), &raw); err == nil && len(raw) > 0 {
			return Credentials{Cookies: raw}, nil
		}
	}

	cookies := make(map[string]string)
	for _, pair := range cookiePairSplit.Split(input, -1) {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		cookies[key] = strings.TrimSpace(value)
	}

	if len(cookies) == 0 {
		return Credentials{}, errors.New("invalid cookie format")
	}

	return Credentials{Cookies: cookies}, nil
}

// MarshalCredentials 序列化为存储格式
func MarshalCredentials(creds Credentials) (string, error) {
	data, err := json.Marshal(creds)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// UnmarshalCredentials 从存储格式还原
func UnmarshalCredentials(raw string) (Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}
