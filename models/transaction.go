package models

import (
	"time"
)

// Transaction 交易记录
// amount 恒为正数，收支方向由 type 决定：income 计 +amount，expense 计 -amount。
// date 是业务发生时间，与 created_at 无关。记录可修改、可硬删除。
type Transaction struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Amount      float64   `json:"amount" gorm:"type:decimal(15,2);not null"`
	Type        string    `json:"type" gorm:"size:10;not null;index"` // income/expense
	CategoryID  *uint     `json:"category_id" gorm:"index"`
	Description string    `json:"description" gorm:"size:512"`
	Source      string    `json:"source" gorm:"size:255"`
	Date        time.Time `json:"date" gorm:"not null;index"`
	CreatedBy   string    `json:"created_by" gorm:"size:64;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 设置表名
func (Transaction) TableName() string {
	return "transactions"
}

// SignedAmount 带符号金额：收入为正，支出为负
func (t *Transaction) SignedAmount() float64 {
	if t.Type == TypeExpense {
		return -t.Amount
	}
	return t.Amount
}
