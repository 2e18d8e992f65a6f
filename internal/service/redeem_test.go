package service

import (
	"errors"
	"testing"
)

// 请求层错误（超时、连接被拒）折算成带原因的失败结果，
// 码照常消耗，历史里能看到失败原因
func TestRedeemFailureFromTransportError(t *testing.T) {
	result := redeemFailure(errors.New("connection refused"))

	if result.Success {
		t.Fatal("transport error must not count as success")
	}
	if result.TryLater {
		t.Fatal("transport error must consume the code, not retry in place")
	}
	if result.Message != "connection refused" {
		t.Fatalf("message = %q, want the underlying error text", result.Message)
	}
	if result.Amount != "" {
		t.Fatalf("amount = %q, want empty", result.Amount)
	}
}
