package leaflow

import (
	"testing"
)

func TestExtractVersion(t *testing.T) {
	page := `<div id="app" data-page="{&quot;component&quot;:&quot;Balance&quot;,&quot;props&quot;:{},&quot;version&quot;:&quot;abc123def&quot;}"></div>`
	if got := extractVersion(page); got != "abc123def" {
		t.Fatalf("extractVersion = %q, want abc123def", got)
	}

	raw := `{"component":"Balance","version":"fedcba"}`
	if got := extractVersion(raw); got != "fedcba" {
		t.Fatalf("extractVersion raw = %q, want fedcba", got)
	}

	if got := extractVersion("<html></html>"); got != "" {
		t.Fatalf("extractVersion empty page = %q, want empty", got)
	}
}

func TestExtractAmount(t *testing.T) {
	cases := []struct {
		message string
		want    string
	}{
		{"兑换成功！获得 ¥5.00000000 余额", "5.00000000"},
		{"获得 10.5 元", "10.5"},
		{"", ""},
		{"兑换成功", ""},
	}
	for _, tc := range cases {
		if got := ExtractAmount(tc.message); got != tc.want {
			t.Errorf("ExtractAmount(%q) = %q, want %q", tc.message, got, tc.want)
		}
	}
}

func TestParseRedeemResponse(t *testing.T) {
	success := `{"props":{"flash":{"success":"兑换成功！获得 ¥5.00000000 余额"}}}`
	result := parseRedeemResponse(success)
	if !result.Success || result.Amount != "5.00000000" {
		t.Fatalf("success case: %+v", result)
	}

	invalid := `{"props":{"flash":{"error":"兑换码无效"}}}`
	result = parseRedeemResponse(invalid)
	if result.Success || result.TryLater {
		t.Fatalf("invalid code should be a hard failure: %+v", result)
	}

	throttled := `{"props":{"flash":{"error":"操作过于频繁，请稍后再试"}}}`
	result = parseRedeemResponse(throttled)
	if result.Success || !result.TryLater {
		t.Fatalf("throttled case should set TryLater: %+v", result)
	}

	expired := `<html><body>Please login to continue</body></html>`
	result = parseRedeemResponse(expired)
	if result.Success {
		t.Fatalf("login page should not parse as success")
	}
}

func TestParseCheckinResponse(t *testing.T) {
	result := parseCheckinResponse(`<div>签到成功！获得奖励 2.5 元</div>`)
	if !result.Success {
		t.Fatalf("expected success: %+v", result)
	}
	if result.Message != "Check-in successful! Earned 2.5 credits" {
		t.Fatalf("unexpected message: %q", result.Message)
	}

	result = parseCheckinResponse(`<div>error occurred</div>`)
	if result.Success {
		t.Fatalf("failure page should not parse as success")
	}
}

func TestAlreadyCheckedIn(t *testing.T) {
	if !alreadyCheckedIn(`<p>今日已签到，明天再来</p>`) {
		t.Fatal("expected already-checked-in detection")
	}
	if alreadyCheckedIn(`<p>点击签到</p>`) {
		t.Fatal("fresh checkin page misdetected")
	}
}

func TestParseInvitationPage(t *testing.T) {
	body := `{"component":"Invite","props":{"invitationCodes":[{"id":1,"code":"AAA","max_uses":5,"used_count":2,"is_active":true},{"id":2,"code":"BBB","max_uses":3,"used_count":3,"is_active":true}]},"version":"v1"}`
	list := parseInvitationPage(body)
	if list == nil {
		t.Fatal("expected invitation list")
	}
	if len(list.Codes) != 2 {
		t.Fatalf("len(codes) = %d, want 2", len(list.Codes))
	}
	if list.Stats.Total != 2 || list.Stats.Available != 1 || list.Stats.TotalUses != 5 {
		t.Fatalf("unexpected stats: %+v", list.Stats)
	}

	if parseInvitationPage(`{"props":{}}`) != nil {
		t.Fatal("missing code list should return nil")
	}
}

func TestParseBalancePage(t *testing.T) {
	body := `{"props":{"auth":{"user":{"id":7,"name":"tester","email":"t@example.com","current_balance":"12.5"}}}}`
	info := parseBalancePage(body)
	if info == nil {
		t.Fatal("expected balance info")
	}
	if info.UID != 7 || info.CurrentBalance != "12.5" {
		t.Fatalf("unexpected balance info: %+v", info)
	}
}

func TestParseCookieString(t *testing.T) {
	creds, err := ParseCookieString(`{"cookies":{"leaflow_session":"abc","XSRF-TOKEN":"tok"}}`)
	if err != nil {
		t.Fatalf("wrapped json: %v", err)
	}
	if creds.Cookies["leaflow_session"] != "abc" {
		t.Fatalf("wrapped json cookies: %+v", creds.Cookies)
	}

	creds, err = ParseCookieString(`{"leaflow_session":"abc"}`)
	if err != nil {
		t.Fatalf("bare map: %v", err)
	}
	if creds.Cookies["leaflow_session"] != "abc" {
		t.Fatalf("bare map cookies: %+v", creds.Cookies)
	}

	creds, err = ParseCookieString("leaflow_session=abc; XSRF-TOKEN=tok")
	if err != nil {
		t.Fatalf("header string: %v", err)
	}
	if creds.Cookies["XSRF-TOKEN"] != "tok" {
		t.Fatalf("header string cookies: %+v", creds.Cookies)
	}

	if _, err := ParseCookieString("   "); err == nil {
		t.Fatal("blank input should fail")
	}
}
