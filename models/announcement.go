package models

import (
	"time"
)

const (
	AnnouncementInfo    = "info"
	AnnouncementWarning = "warning"
	AnnouncementSuccess = "success"
	AnnouncementError   = "error"
)

// ActiveAnnouncementLimit "当前公告" 查询的最大返回条数
const ActiveAnnouncementLimit = 10

// Announcement 公告
// 硬删除；"当前公告" 仅返回 is_active=true 的记录，按创建时间倒序，最多 10 条。
type Announcement struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Type      string    `json:"type" gorm:"size:10;default:info"` // info/warning/success/error
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedBy string    `json:"created_by" gorm:"size:64;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 设置表名
func (Announcement) TableName() string {
	return "announcements"
}

// ValidAnnouncementType 检查公告类型是否合法
func ValidAnnouncementType(t string) bool {
	switch t {
	case AnnouncementInfo, AnnouncementWarning, AnnouncementSuccess, AnnouncementError:
		return true
	}
	return false
}
