package leaflow

import (
	"context"
	"sync"
)

type MockCall struct {
	Op      string
	Account string
	Code    string
}

// MockClient 可配置的远端客户端 mock，实现 Client 接口
type MockClient struct {
	mu    sync.Mutex
	Calls []MockCall

	// CheckinFunc 不为空时接管 Checkin 调用
	CheckinFunc func(accountName string) (*CheckinResult, error)
	// RedeemFunc 不为空时接管 Redeem 调用
	RedeemFunc func(code string) (*RedeemResult, error)

	Invitations []InvitationCode
	Balance     *BalanceInfo
	Err         error
}

func NewMockClient() *MockClient {
	return &MockClient{
		Calls: make([]MockCall, 0),
	}
}

func (m *MockClient) record(call MockCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

// CallCount 按操作名统计调用次数
func (m *MockClient) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, call := range m.Calls {
		if call.Op == op {
			count++
		}
	}
	return count
}

func (m *MockClient) Checkin(_ context.Context, _ Credentials, accountName string) (*CheckinResult, error) {
	m.record(MockCall{Op: "checkin", Account: accountName})
	if m.CheckinFunc != nil {
		return m.CheckinFunc(accountName)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &CheckinResult{Success: true, Message: "Check-in successful!"}, nil
}

func (m *MockClient) Redeem(_ context.Context, _ Credentials, code string) (*RedeemResult, error) {
	m.record(MockCall{Op: "redeem", Code: code})
	if m.RedeemFunc != nil {
		return m.RedeemFunc(code)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &RedeemResult{Success: true, Amount: "1.00", Message: "兑换成功"}, nil
}

func (m *MockClient) CreateInvitationCode(_ context.Context, _ Credentials, maxUses int, note string) (*InvitationCode, error) {
	m.record(MockCall{Op: "create_invitation"})
	if m.Err != nil {
		return nil, m.Err
	}
	code := InvitationCode{RemoteID: int64(len(m.Invitations) + 1), Code: "MOCK-CODE", MaxUses: maxUses, IsActive: true, Note: note}
	m.Invitations = append([]InvitationCode{code}, m.Invitations...)
	return &code, nil
}

func (m *MockClient) GetInvitationCodes(_ context.Context, _ Credentials) (*InvitationList, error) {
	m.record(MockCall{Op: "list_invitations"})
	if m.Err != nil {
		return nil, m.Err
	}
	return &InvitationList{Codes: m.Invitations, Stats: CalculateStats(m.Invitations)}, nil
}

func (m *MockClient) FetchBalance(_ context.Context, _ Credentials) (*BalanceInfo, error) {
	m.record(MockCall{Op: "fetch_balance"})
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Balance != nil {
		return m.Balance, nil
	}
	return &BalanceInfo{UID: 1, Name: "mock", CurrentBalance: "0"}, nil
}
