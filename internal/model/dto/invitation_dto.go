package dto

// ========== Invitation 相关 DTO ==========

// CreateInvitationRequest 创建邀请码
type CreateInvitationRequest struct {
	MaxUses int    `json:"max_uses"`
	Note    string `json:"note"`
}

// InvitationCodeView 邀请码视图
type InvitationCodeView struct {
	ID          int64  `json:"id"`
	Code        string `json:"code"`
	MaxUses     int    `json:"max_uses"`
	UsedCount   int    `json:"used_count"`
	IsActive    bool   `json:"is_active"`
	IsAvailable bool   `json:"is_available"`
	Note        string `json:"note"`
	CreatedAt   string `json:"created_at"`
}

// InvitationListResponse 邀请码列表响应
type InvitationListResponse struct {
	Codes  []InvitationCodeView `json:"codes"`
	Stats  InvitationStatsView  `json:"stats"`
	Cached bool                 `json:"cached"`
}

// InvitationStatsView 邀请码统计
type InvitationStatsView struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Available int `json:"available"`
	TotalUses int `json:"total_uses"`
}
