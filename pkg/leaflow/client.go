package leaflow

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"LeafPanel/config"
	"LeafPanel/pkg/logger"
)

// Client Leaflow 远端操作客户端接口
// 签到、兑换、邀请码、余额都走这里，engine 只关心结果不关心协议
type Client interface {
	// Checkin 执行一次签到
	Checkin(ctx context.Context, creds Credentials, accountName string) (*CheckinResult, error)

	// Redeem 提交一个兑换码
	Redeem(ctx context.Context, creds Credentials, code string) (*RedeemResult, error)

	// CreateInvitationCode 创建邀请码
	CreateInvitationCode(ctx context.Context, creds Credentials, maxUses int, note string) (*InvitationCode, error)

	// GetInvitationCodes 拉取邀请码列表及统计
	GetInvitationCodes(ctx context.Context, creds Credentials) (*InvitationList, error)

	// FetchBalance 拉取账户余额与资料
	FetchBalance(ctx context.Context, creds Credentials) (*BalanceInfo, error)
}

// CheckinResult 签到结果。Success=false 表示远端明确拒绝（已记录 message）
type CheckinResult struct {
	Success bool
	Message string
}

// RedeemResult 兑换结果
// TryLater 表示远端明确要求稍后重试，调度器会重新套用冷却等待而不消耗兑换码
type RedeemResult struct {
	Success  bool
	TryLater bool
	Amount   string
	Message  string
}

// InvitationCode 远端邀请码
type InvitationCode struct {
	RemoteID      int64  `json:"id"`
	Code          string `json:"code"`
	MaxUses       int    `json:"max_uses"`
	UsedCount     int    `json:"used_count"`
	RemainingUses int    `json:"remaining_uses"`
	IsActive      bool   `json:"is_active"`
	Note          string `json:"note"`
	CreatedAt     string `json:"created_at"`
}

// IsAvailable 剩余次数未用完即可用
func (c InvitationCode) IsAvailable() bool {
	return c.IsActive && c.UsedCount < c.MaxUses
}

// InvitationStats 邀请码统计
type InvitationStats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Available int `json:"available"`
	TotalUses int `json:"total_uses"`
}

// InvitationList 列表响应
type InvitationList struct {
	Codes []InvitationCode `json:"codes"`
	Stats InvitationStats  `json:"stats"`
}

// CalculateStats 根据邀请码列表计算统计信息
func CalculateStats(codes []InvitationCode) InvitationStats {
	stats := InvitationStats{Total: len(codes)}
	for _, c := range codes {
		if c.IsActive {
			stats.Active++
		}
		if c.IsAvailable() {
			stats.Available++
		}
		stats.TotalUses += c.UsedCount
	}
	return stats
}

// BalanceInfo 账户资料与余额快照
type BalanceInfo struct {
	UID            int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	RegisteredAt   string `json:"created_at"`
	CurrentBalance string `json:"current_balance"`
	TotalConsumed  string `json:"total_consumed"`
}

var (
	client     Client
	clientOnce sync.Once
)

// Init 初始化 HTTP 客户端单例
func Init() {
	clientOnce.Do(func() {
		client = NewHTTPClient(config.Cfg.LeaflowBaseURL, config.Cfg.LeaflowCheckinURL, config.Cfg.LeaflowTimeout)
		logger.Logger.Info("Leaflow client initialized",
			zap.String("base_url", config.Cfg.LeaflowBaseURL),
		)
	})
}

// GetClient 获取客户端实例
func GetClient() Client {
	if client == nil {
		panic("Leaflow client not initialized, call leaflow.Init() first")
	}
	return client
}

// SetClient 替换客户端实例（测试用）
func SetClient(c Client) {
	client = c
}
