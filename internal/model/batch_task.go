package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// BatchTaskStatus 批量兑换任务状态
type BatchTaskStatus string

const (
	BatchTaskStatusPending   BatchTaskStatus = "pending"
	BatchTaskStatusRunning   BatchTaskStatus = "running"
	BatchTaskStatusPaused    BatchTaskStatus = "paused"
	BatchTaskStatusCompleted BatchTaskStatus = "completed"
	BatchTaskStatusCancelled BatchTaskStatus = "cancelled"
)

// IsTerminal 终态任务不再被调度
func (s BatchTaskStatus) IsTerminal() bool {
	return s == BatchTaskStatusCompleted || s == BatchTaskStatusCancelled
}

// CanTransition 合法的状态迁移
// pending -> running/cancelled, running -> paused/cancelled, paused -> running/cancelled
// 只有运行中的任务才能暂停
func (s BatchTaskStatus) CanTransition(to BatchTaskStatus) bool {
	switch s {
	case BatchTaskStatusPending:
		return to == BatchTaskStatusRunning || to == BatchTaskStatusCancelled
	case BatchTaskStatusRunning:
		return to == BatchTaskStatusPaused || to == BatchTaskStatusCompleted || to == BatchTaskStatusCancelled
	case BatchTaskStatusPaused:
		return to == BatchTaskStatusRunning || to == BatchTaskStatusCancelled
	default:
		return false
	}
}

// CodeList 兑换码数组，jsonb 存储
type CodeList []string

func (l CodeList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *CodeList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for CodeList: %T", value)
	}
}

// BatchRedeemTask 批量兑换任务
// PublicID 是对外暴露的雪花 ID；同一账号同一时刻最多一个非终态任务
type BatchRedeemTask struct {
	BaseModel
	PublicID  int64           `gorm:"uniqueIndex;not null" json:"public_id,string"`
	AccountID int64           `gorm:"not null;index:idx_batch_tasks_account" json:"account_id"`
	Status    BatchTaskStatus `gorm:"type:varchar(16);not null;default:'pending';index:idx_batch_tasks_status" json:"status"`

	Codes        CodeList `gorm:"type:jsonb;not null;default:'[]'" json:"codes"`
	TotalCount   int      `gorm:"not null;default:0" json:"total_count"`
	CurrentIndex int      `gorm:"not null;default:0" json:"current_index"`
	SuccessCount int      `gorm:"not null;default:0" json:"success_count"`
	FailCount    int      `gorm:"not null;default:0" json:"fail_count"`

	// 下一个兑换码的绝对执行时间，重启后据此恢复等待
	NextExecuteAt *time.Time `json:"next_execute_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

func (BatchRedeemTask) TableName() string {
	return "batch_redeem_tasks"
}

// RemainingCodes 未处理的兑换码数量
func (t *BatchRedeemTask) RemainingCodes() int {
	remaining := t.TotalCount - t.CurrentIndex
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Finished 所有码都已处理
func (t *BatchRedeemTask) Finished() bool {
	return t.CurrentIndex >= t.TotalCount
}
