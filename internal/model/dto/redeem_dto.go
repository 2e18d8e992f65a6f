package dto

import "time"

// ========== Redeem 相关 DTO ==========

// RedeemRequest 手动兑换单个码
type RedeemRequest struct {
	Code string `json:"code" binding:"required"`
}

// RedeemResponse 兑换结果
type RedeemResponse struct {
	Success bool   `json:"success"`
	Amount  string `json:"amount,omitempty"`
	Message string `json:"message"`
}

// BatchRedeemRequest 创建批量兑换任务
type BatchRedeemRequest struct {
	Codes []string `json:"codes" binding:"required"`
}

// BatchTaskResponse 批量任务视图
type BatchTaskResponse struct {
	TaskID        string     `json:"task_id"`
	AccountID     int64      `json:"account_id"`
	Status        string     `json:"status"`
	TotalCount    int        `json:"total_count"`
	CurrentIndex  int        `json:"current_index"`
	SuccessCount  int        `json:"success_count"`
	FailCount     int        `json:"fail_count"`
	NextExecuteAt *time.Time `json:"next_execute_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CodeProgress 单个兑换码的进度
// Status: success / failed / processing / waiting
type CodeProgress struct {
	Code    string `json:"code"`
	Status  string `json:"status"`
	Amount  string `json:"amount,omitempty"`
	Message string `json:"message,omitempty"`
}

// BatchTaskStatusResponse 任务状态快照，含逐码进度
type BatchTaskStatusResponse struct {
	BatchTaskResponse
	Progress []CodeProgress `json:"progress"`
}
