package model

import "time"

// Account 托管的 Leaflow 账号
// TokenData 是导入的不透明凭证（cookie + 附加 header 的 JSON），只在执行器里解包
type Account struct {
	BaseModel
	Name      string `gorm:"uniqueIndex;type:varchar(255);not null" json:"name"`
	TokenData string `gorm:"type:text;not null" json:"-"`
	Enabled   bool   `gorm:"not null;default:true;index:idx_accounts_enabled" json:"enabled"`

	// 签到窗口与重试（账号级覆盖，"HH:MM"）
	CheckinTimeStart string `gorm:"type:varchar(5);not null;default:'06:30'" json:"checkin_time_start"`
	CheckinTimeEnd   string `gorm:"type:varchar(5);not null;default:'06:40'" json:"checkin_time_end"`
	CheckInterval    int    `gorm:"not null;default:60" json:"check_interval"`
	RetryCount       int    `gorm:"not null;default:2" json:"retry_count"`

	// 当日签到去重标记（服务时区的日期）
	LastCheckinDate *time.Time `gorm:"type:date" json:"last_checkin_date"`

	// 远端资料缓存，刷新余额时回填
	LeaflowUID       int64      `gorm:"not null;default:0" json:"leaflow_uid"`
	LeaflowName      string     `gorm:"type:varchar(255);not null;default:''" json:"leaflow_name"`
	LeaflowEmail     string     `gorm:"type:varchar(255);not null;default:''" json:"leaflow_email"`
	RegisteredAt     string     `gorm:"type:varchar(64);not null;default:''" json:"registered_at"`
	CurrentBalance   string     `gorm:"type:varchar(32);not null;default:''" json:"current_balance"`
	TotalConsumed    string     `gorm:"type:varchar(32);not null;default:''" json:"total_consumed"`
	BalanceUpdatedAt *time.Time `json:"balance_updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// CheckedInOn 账号在给定服务日是否已标记签到
func (a *Account) CheckedInOn(day time.Time) bool {
	if a.LastCheckinDate == nil {
		return false
	}
	y1, m1, d1 := a.LastCheckinDate.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
