package model

import "time"

// CheckinRecord 签到历史，只追加
type CheckinRecord struct {
	BaseModel
	AccountID   int64     `gorm:"not null;index:idx_checkin_history_account" json:"account_id"`
	Success     bool      `gorm:"not null" json:"success"`
	Message     string    `gorm:"type:text" json:"message"`
	CheckinDate time.Time `gorm:"type:date;not null;index:idx_checkin_history_date" json:"checkin_date"`
	RetryTimes  int       `gorm:"not null;default:0" json:"retry_times"`
}

func (CheckinRecord) TableName() string {
	return "checkin_history"
}
