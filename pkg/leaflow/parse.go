package leaflow

import (
	"encoding/json"
	"html"
	"regexp"
	"strings"
)

// Inertia 页面把状态塞在 data-page 属性里，大部分解析都从这里开始

var (
	dataPagePattern = regexp.MustCompile(`data-page="([^"]+)"`)
	versionPattern  = regexp.MustCompile(`"version"\s*:\s*"([a-f0-9]+)"`)
	amountPattern   = regexp.MustCompile(`¥?([\d.]+)`)
	csrfPatterns    = []*regexp.Regexp{
		regexp.MustCompile(`(?i)name=["']_token["'][^>]*value=["']([^"']+)["']`),
		regexp.MustCompile(`(?i)name=["']csrf_token["'][^>]*value=["']([^"']+)["']`),
		regexp.MustCompile(`(?i)<meta[^>]*name=["']csrf-token["'][^>]*content=["']([^"']+)["']`),
	}
)

// extractDataPage 解码 data-page 属性里的 JSON
func extractDataPage(htmlContent string) (map[string]json.RawMessage, bool) {
	match := dataPagePattern.FindStringSubmatch(htmlContent)
	if match == nil {
		return nil, false
	}

	var page map[string]json.RawMessage
	if err := json.Unmarshal([]byte(html.UnescapeString(match[1])), &page); err != nil {
		return nil, false
	}
	return page, true
}

// extractVersion 取 Inertia 页面版本号，请求头需要回传
func extractVersion(htmlContent string) string {
	if page, ok := extractDataPage(htmlContent); ok {
		var version string
		if raw, exists := page["version"]; exists {
			if json.Unmarshal(raw, &version) == nil && version != "" {
				return version
			}
		}
	}

	if match := versionPattern.FindStringSubmatch(htmlContent); match != nil {
		return match[1]
	}
	return ""
}

// ExtractAmount 从兑换成功消息中提取金额，如 "兑换成功！获得 ¥5.00000000 余额" -> "5.00000000"
func ExtractAmount(message string) string {
	if message == "" {
		return ""
	}
	if match := amountPattern.FindStringSubmatch(message); match != nil {
		return match[1]
	}
	return ""
}

// extractCSRFToken 从页面表单里找 CSRF token
func extractCSRFToken(htmlContent string) string {
	for _, pattern := range csrfPatterns {
		if match := pattern.FindStringSubmatch(htmlContent); match != nil {
			return match[1]
		}
	}
	return ""
}

type inertiaFlash struct {
	Success string `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// parseRedeemResponse 解析兑换接口的 Inertia 响应
func parseRedeemResponse(body string) *RedeemResult {
	var payload struct {
		Props struct {
			Flash inertiaFlash `json:"flash"`
		} `json:"props"`
	}

	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		// 非 JSON 响应多半是登录过期后的 HTML 页面
		if strings.Contains(strings.ToLower(body), "login") {
			return &RedeemResult{Success: false, Message: "登录已过期，请更新 Cookie"}
		}
		return &RedeemResult{Success: false, Message: "响应解析失败"}
	}

	flash := payload.Props.Flash
	switch {
	case flash.Success != "":
		return &RedeemResult{Success: true, Amount: ExtractAmount(flash.Success), Message: flash.Success}
	case flash.Error != "":
		return &RedeemResult{Success: false, TryLater: isTryLater(flash.Error), Message: flash.Error}
	case flash.Message != "":
		return &RedeemResult{Success: false, TryLater: isTryLater(flash.Message), Message: flash.Message}
	default:
		return &RedeemResult{Success: false, Message: "未知响应"}
	}
}

// isTryLater 远端明确要求稍后再试的信号，不应消耗兑换码
func isTryLater(message string) bool {
	lower := strings.ToLower(message)
	for _, indicator := range []string{"稍后", "频繁", "try later", "try again later", "too many"} {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

var checkinSuccessIndicators = []string{
	"check-in successful", "checkin successful", "签到成功",
	"attendance recorded", "earned reward", "获得奖励",
	"success", "成功", "completed",
}

var alreadyCheckedInIndicators = []string{
	"already checked in", "今日已签到", "checked in today",
	"attendance recorded", "已完成签到", "completed today",
}

var checkinPageIndicators = []string{
	"check-in", "checkin", "签到", "attendance", "daily",
}

var rewardPatterns = []*regexp.Regexp{
	regexp.MustCompile(`获得奖励[^\d]*(\d+\.?\d*)\s*元`),
	regexp.MustCompile(`(?i)earned.*?(\d+\.?\d*)\s*(credits?|points?)`),
	regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(credits?|points?|元)`),
}

// alreadyCheckedIn 页面是否提示今日已签到
func alreadyCheckedIn(htmlContent string) bool {
	return containsAny(htmlContent, alreadyCheckedInIndicators)
}

// isCheckinPage 页面是否是签到页
func isCheckinPage(htmlContent string) bool {
	return containsAny(htmlContent, checkinPageIndicators)
}

// parseCheckinResponse 判断签到响应是否成功，并提取奖励金额
func parseCheckinResponse(htmlContent string) *CheckinResult {
	if !containsAny(htmlContent, checkinSuccessIndicators) {
		return &CheckinResult{Success: false, Message: "Checkin response indicates failure"}
	}

	for _, pattern := range rewardPatterns {
		if match := pattern.FindStringSubmatch(htmlContent); match != nil {
			return &CheckinResult{Success: true, Message: "Check-in successful! Earned " + match[1] + " credits"}
		}
	}

	return &CheckinResult{Success: true, Message: "Check-in successful!"}
}

func containsAny(htmlContent string, indicators []string) bool {
	lower := strings.ToLower(htmlContent)
	for _, indicator := range indicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// parseInvitationPage 从邀请码页面或 Inertia 响应中取邀请码列表
// 既可能是完整 HTML（data-page 属性），也可能是 X-Inertia 返回的裸 JSON
func parseInvitationPage(content string) *InvitationList {
	props, ok := extractProps(content)
	if !ok {
		return nil
	}

	for _, key := range []string{"invitationCodes", "invitation_codes", "codes"} {
		raw, exists := props[key]
		if !exists {
			continue
		}
		var codes []InvitationCode
		if err := json.Unmarshal(raw, &codes); err != nil {
			// 分页包装 {data: [...]}
			var paged struct {
				Data []InvitationCode `json:"data"`
			}
			if err := json.Unmarshal(raw, &paged); err != nil {
				continue
			}
			codes = paged.Data
		}
		return &InvitationList{Codes: codes, Stats: CalculateStats(codes)}
	}
	return nil
}

// parseBalancePage 从余额页的登录态里取余额快照
func parseBalancePage(content string) *BalanceInfo {
	props, ok := extractProps(content)
	if !ok {
		return nil
	}

	rawAuth, exists := props["auth"]
	if !exists {
		return nil
	}
	var auth struct {
		User *BalanceInfo `json:"user"`
	}
	if err := json.Unmarshal(rawAuth, &auth); err != nil || auth.User == nil {
		return nil
	}
	return auth.User
}

// extractProps 兼容 HTML 页面与裸 Inertia JSON 两种形态
func extractProps(content string) (map[string]json.RawMessage, bool) {
	page, ok := extractDataPage(content)
	if !ok {
		var direct map[string]json.RawMessage
		if err := json.Unmarshal([]byte(content), &direct); err != nil {
			return nil, false
		}
		page = direct
	}

	rawProps, exists := page["props"]
	if !exists {
		return nil, false
	}
	var props map[string]json.RawMessage
	if err := json.Unmarshal(rawProps, &props); err != nil {
		return nil, false
	}
	return props, true
}
