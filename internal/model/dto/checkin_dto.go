package dto

import "time"

// ========== Checkin 相关 DTO ==========

// CheckinHistoryQuery 历史查询参数
type CheckinHistoryQuery struct {
	AccountID int64 `query:"account_id"`
	Page      int   `query:"page"`
	PageSize  int   `query:"page_size"`
}

// CheckinRecordResponse 签到记录视图
type CheckinRecordResponse struct {
	ID          int64     `json:"id"`
	AccountID   int64     `json:"account_id"`
	AccountName string    `json:"account_name"`
	Success     bool      `json:"success"`
	Message     string    `json:"message"`
	CheckinDate string    `json:"checkin_date"`
	RetryTimes  int       `json:"retry_times"`
	CreatedAt   time.Time `json:"created_at"`
}

// CheckinHistoryResponse 历史分页响应
type CheckinHistoryResponse struct {
	Total   int64                   `json:"total"`
	Records []CheckinRecordResponse `json:"records"`
}

// ClearHistoryRequest 清理历史
// Type: all / before_days
type ClearHistoryRequest struct {
	Type       string `json:"type" binding:"required"`
	BeforeDays int    `json:"before_days"`
}

// UpdateCheckinSettingsRequest 更新全局签到设置
type UpdateCheckinSettingsRequest struct {
	CheckinTime    *string `json:"checkin_time"`
	RetryCount     *int    `json:"retry_count"`
	RandomDelayMin *int    `json:"random_delay_min"`
	RandomDelayMax *int    `json:"random_delay_max"`
}
