package dto

import "time"

// ========== Account 相关 DTO ==========

// CreateAccountRequest 新增账号
type CreateAccountRequest struct {
	Name       string `json:"name" binding:"required"`
	CookieData string `json:"cookie_data" binding:"required"`
	Enabled    *bool  `json:"enabled"`
}

// UpdateAccountRequest 更新账号，指针字段表示未提交
type UpdateAccountRequest struct {
	Name             *string `json:"name"`
	CookieData       *string `json:"cookie_data"`
	Enabled          *bool   `json:"enabled"`
	CheckinTimeStart *string `json:"checkin_time_start"`
	CheckinTimeEnd   *string `json:"checkin_time_end"`
	RetryCount       *int    `json:"retry_count"`
}

// AccountResponse 账号视图，凭证不回显
type AccountResponse struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Enabled          bool       `json:"enabled"`
	CheckinTimeStart string     `json:"checkin_time_start"`
	CheckinTimeEnd   string     `json:"checkin_time_end"`
	RetryCount       int        `json:"retry_count"`
	LastCheckinDate  *time.Time `json:"last_checkin_date"`
	LeaflowName      string     `json:"leaflow_name"`
	LeaflowEmail     string     `json:"leaflow_email"`
	CurrentBalance   string     `json:"current_balance"`
	TotalConsumed    string     `json:"total_consumed"`
	BalanceUpdatedAt *time.Time `json:"balance_updated_at"`
	CreatedAt        time.Time  `json:"created_at"`
}
