package leaflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"LeafPanel/pkg/logger"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// HTTPClient 访问远端面板，所有请求携带账号 Cookie
type HTTPClient struct {
	baseURL    string
	checkinURL string
	timeout    time.Duration
}

func NewHTTPClient(baseURL, checkinURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		checkinURL: checkinURL,
		timeout:    timeout,
	}
}

// newSession 每次操作独立会话，避免账号之间串 Cookie
func (c *HTTPClient) newSession(creds Credentials) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	cookies := make([]*http.Cookie, 0, len(creds.Cookies))
	for name, value := range creds.Cookies {
		cookies = append(cookies, &http.Cookie{Name: name, Value: value})
	}

	for _, raw := range []string{c.baseURL, c.checkinURL} {
		if raw == "" {
			continue
		}
		target, err := url.Parse(raw)
		if err != nil {
			continue
		}
		jar.SetCookies(&url.URL{Scheme: target.Scheme, Host: target.Host, Path: "/"}, cookies)
	}

	return &http.Client{Jar: jar, Timeout: c.timeout}, nil
}

func (c *HTTPClient) newRequest(ctx context.Context, method, rawURL string, body io.Reader, creds Credentials) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8")
	for key, value := range creds.Headers {
		req.Header.Set(key, value)
	}
	return req, nil
}

// xsrfToken 从会话 Cookie 中取 XSRF-TOKEN，Laravel 要求 URL 解码后回传
func xsrfToken(session *http.Client, rawURL string) string {
	target, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	for _, cookie := range session.Jar.Cookies(target) {
		if cookie.Name == "XSRF-TOKEN" {
			if decoded, err := url.QueryUnescape(cookie.Value); err == nil {
				return decoded
			}
			return cookie.Value
		}
	}
	return ""
}

func readBody(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	return string(data), nil
}

// fetchPage 拉取页面并返回内容和 Inertia 版本号
func (c *HTTPClient) fetchPage(ctx context.Context, session *http.Client, creds Credentials, rawURL string) (string, string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil, creds)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := session.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	body, err := readBody(resp)
	if err != nil {
		return "", "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	return body, extractVersion(body), nil
}

// inertiaPost 携带 Inertia 协议头提交 JSON
func (c *HTTPClient) inertiaPost(ctx context.Context, session *http.Client, creds Credentials, rawURL, referer, version string, payload any) (string, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", 0, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, rawURL, strings.NewReader(string(body)), creds)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/html, application/xhtml+xml")
	req.Header.Set("X-Inertia", "true")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", referer)
	if version != "" {
		req.Header.Set("X-Inertia-Version", version)
	}
	if token := xsrfToken(session, rawURL); token != "" {
		req.Header.Set("X-XSRF-TOKEN", token)
	}

	resp, err := session.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("post %s: %w", rawURL, err)
	}
	text, err := readBody(resp)
	if err != nil {
		return "", 0, err
	}
	return text, resp.StatusCode, nil
}

// Checkin 执行一次签到，先看页面状态再提交表单
func (c *HTTPClient) Checkin(ctx context.Context, creds Credentials, accountName string) (*CheckinResult, error) {
	session, err := c.newSession(creds)
	if err != nil {
		return nil, err
	}

	page, _, err := c.fetchPage(ctx, session, creds, c.checkinURL)
	if err != nil {
		return nil, err
	}

	if alreadyCheckedIn(page) {
		logger.Logger.Info("account already checked in today", zap.String("account", accountName))
		return &CheckinResult{Success: true, Message: "今日已签到"}, nil
	}

	if !isCheckinPage(page) {
		return &CheckinResult{Success: false, Message: "签到页面加载异常，Cookie 可能已失效"}, nil
	}

	form := url.Values{
		"checkin": {"1"},
		"action":  {"checkin"},
		"daily":   {"1"},
	}
	if token := extractCSRFToken(page); token != "" {
		form.Set("_token", token)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.checkinURL, strings.NewReader(form.Encode()), creds)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", c.checkinURL)

	resp, err := session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit checkin: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return &CheckinResult{Success: false, Message: fmt.Sprintf("签到请求失败，状态码 %d", resp.StatusCode)}, nil
	}
	if alreadyCheckedIn(body) {
		return &CheckinResult{Success: true, Message: "今日已签到"}, nil
	}
	return parseCheckinResponse(body), nil
}

// Redeem 兑换单个兑换码
func (c *HTTPClient) Redeem(ctx context.Context, creds Credentials, code string) (*RedeemResult, error) {
	session, err := c.newSession(creds)
	if err != nil {
		return nil, err
	}

	balanceURL := c.baseURL + "/balance"
	_, version, err := c.fetchPage(ctx, session, creds, balanceURL)
	if err != nil {
		return nil, err
	}

	body, status, err := c.inertiaPost(ctx, session, creds, c.baseURL+"/balance/redeem-code", balanceURL, version, map[string]string{"code": code})
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK, http.StatusFound:
		return parseRedeemResponse(body), nil
	case http.StatusUnauthorized, 419:
		return &RedeemResult{Success: false, Message: "登录已过期，请更新 Cookie"}, nil
	case http.StatusTooManyRequests:
		return &RedeemResult{Success: false, TryLater: true, Message: "请求过于频繁，请稍后再试"}, nil
	default:
		return &RedeemResult{Success: false, Message: fmt.Sprintf("兑换请求失败，状态码 %d", status)}, nil
	}
}

// CreateInvitationCode 创建邀请码
func (c *HTTPClient) CreateInvitationCode(ctx context.Context, creds Credentials, maxUses int, note string) (*InvitationCode, error) {
	session, err := c.newSession(creds)
	if err != nil {
		return nil, err
	}

	pageURL := c.baseURL + "/invite"
	_, version, err := c.fetchPage(ctx, session, creds, pageURL)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{"max_uses": maxUses}
	if note != "" {
		payload["note"] = note
	}

	body, status, err := c.inertiaPost(ctx, session, creds, c.baseURL+"/invite/codes", pageURL, version, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusFound {
		return nil, fmt.Errorf("create invitation code: unexpected status %d", status)
	}

	list := parseInvitationPage(body)
	if list == nil || len(list.Codes) == 0 {
		return nil, fmt.Errorf("create invitation code: response missing code list")
	}
	// 新建的码排在最前
	return &list.Codes[0], nil
}

// GetInvitationCodes 拉取账号的邀请码列表
func (c *HTTPClient) GetInvitationCodes(ctx context.Context, creds Credentials) (*InvitationList, error) {
	session, err := c.newSession(creds)
	if err != nil {
		return nil, err
	}

	page, _, err := c.fetchPage(ctx, session, creds, c.baseURL+"/invite")
	if err != nil {
		return nil, err
	}

	list := parseInvitationPage(page)
	if list == nil {
		return nil, fmt.Errorf("get invitation codes: page missing invitation data")
	}
	list.Stats = CalculateStats(list.Codes)
	return list, nil
}

// FetchBalance 从余额页读取当前余额
func (c *HTTPClient) FetchBalance(ctx context.Context, creds Credentials) (*BalanceInfo, error) {
	session, err := c.newSession(creds)
	if err != nil {
		return nil, err
	}

	page, _, err := c.fetchPage(ctx, session, creds, c.baseURL+"/balance")
	if err != nil {
		return nil, err
	}

	info := parseBalancePage(page)
	if info == nil {
		return nil, fmt.Errorf("fetch balance: page missing balance data")
	}
	return info, nil
}
