package model

// RedeemRecord 兑换历史，只追加
// 每个账号最近一条成功记录是冷却计时的唯一依据
type RedeemRecord struct {
	BaseModel
	AccountID int64  `gorm:"not null;index:idx_redeem_history_account" json:"account_id"`
	Code      string `gorm:"type:varchar(255);not null" json:"code"`
	Success   bool   `gorm:"not null" json:"success"`
	Amount    string `gorm:"type:varchar(32);not null;default:''" json:"amount"`
	Message   string `gorm:"type:text" json:"message"`
}

func (RedeemRecord) TableName() string {
	return "redeem_history"
}
