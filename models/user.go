package models

import (
	"time"
)

const (
	// RoleAdmin 管理员：可管理用户角色与状态
	RoleAdmin = "admin"
	// RoleBendahara 财务（bendahara）：负责日常记账
	RoleBendahara = "bendahara"
	// RolePengurus 干事（pengurus）：普通成员，默认角色
	RolePengurus = "pengurus"
)

// User 用户模型
// ID 由外部身份系统签发（字符串），本系统只做 upsert，不做硬删除，
// 停用通过 is_active 标记实现。
type User struct {
	ID              string    `json:"id" gorm:"primaryKey;size:64"`
	Email           *string   `json:"email" gorm:"size:255;uniqueIndex"`
	Password        string    `json:"-" gorm:"size:255"` // 本地登录密码哈希，空表示仅支持外部登录
	FirstName       string    `json:"first_name" gorm:"size:100"`
	LastName        string    `json:"last_name" gorm:"size:100"`
	ProfileImageURL string    `json:"profile_image_url" gorm:"size:512"`
	Role            string    `json:"role" gorm:"size:20;default:pengurus;index"` // admin/bendahara/pengurus
	IsActive        bool      `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}

// ValidRole 检查角色是否合法
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleBendahara, RolePengurus:
		return true
	}
	return false
}
