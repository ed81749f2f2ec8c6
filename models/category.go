package models

import (
	"time"
)

const (
	// TypeIncome 收入
	TypeIncome = "income"
	// TypeExpense 支出
	TypeExpense = "expense"
)

// DefaultCategoryColor 类别默认颜色
const DefaultCategoryColor = "#6366f1"

// Category 收支类别
// 软删除：删除时仅置 is_active=false，保证历史交易仍能按 ID 解析类别名称与颜色。
// type 在创建后不再变更，交易的收支方向以类别类型为准校验。
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	Type      string    `json:"type" gorm:"size:10;not null;index"` // income/expense
	Color     string    `json:"color" gorm:"size:7;default:#6366f1"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName 设置表名
func (Category) TableName() string {
	return "categories"
}

// ValidTransactionType 检查收支类型是否合法
func ValidTransactionType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}
